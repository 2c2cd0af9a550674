package update_slot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

type fakeService struct {
	got *models.EditSlotRequest
	err error
}

func (f *fakeService) Edit(_ context.Context, slotID int64, req *models.EditSlotRequest) (*models.SlotResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.SlotResponse{ID: slotID}, nil
}

func newRequest(slotID, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/slots/"+slotID, strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"slotId": slotID})
}

func TestHandle_PartialUpdate(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest("4", `{"startTime":"19:00","capacity":6}`))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.got)
	require.NotNil(t, svc.got.StartTime)
	assert.Equal(t, types.TimeString("19:00"), *svc.got.StartTime)
	require.NotNil(t, svc.got.Capacity)
	assert.Equal(t, 6, *svc.got.Capacity)
	assert.Nil(t, svc.got.EndTime)
	assert.Nil(t, svc.got.Date)
	assert.Nil(t, svc.got.Disabled)
}

func TestHandle_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		slotID string
		body   string
		err    error
		want   int
	}{
		{name: "empty body", slotID: "4", body: `{}`, want: http.StatusBadRequest},
		{name: "bad time", slotID: "4", body: `{"endTime":"25:00"}`, want: http.StatusBadRequest},
		{name: "capacity too big", slotID: "4", body: `{"capacity":101}`, want: http.StatusBadRequest},
		{name: "bad id", slotID: "abc", body: `{"capacity":5}`, want: http.StatusBadRequest},
		{name: "not found", slotID: "4", body: `{"capacity":5}`, err: domain.ErrSlotNotFound, want: http.StatusNotFound},
		{name: "inverted range", slotID: "4", body: `{"endTime":"10:00"}`, err: domain.ErrInvalidTimeRange, want: http.StatusBadRequest},
		{name: "collision", slotID: "4", body: `{"startTime":"18:00"}`, err: domain.ErrSlotAlreadyExists, want: http.StatusConflict},
		{name: "busy", slotID: "4", body: `{"capacity":5}`, err: domain.ErrSlotBusy, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.NewNop())
			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.slotID, tt.body))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
