package delete_slot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) Delete(context.Context, int64) error {
	return f.err
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		slotID string
		err    error
		want   int
	}{
		{name: "deleted", slotID: "4", want: http.StatusNoContent},
		{name: "bad id", slotID: "-4", want: http.StatusBadRequest},
		{name: "not found", slotID: "4", err: domain.ErrSlotNotFound, want: http.StatusNotFound},
		{name: "has bookings", slotID: "4", err: domain.ErrSlotHasBookings, want: http.StatusConflict},
		{name: "busy", slotID: "4", err: domain.ErrSlotBusy, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/slots/"+tt.slotID, nil)
			r = mux.SetURLVars(r, map[string]string{"slotId": tt.slotID})

			w := httptest.NewRecorder()
			NewHandler(&fakeService{err: tt.err}, logger.NewNop()).Handle(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
