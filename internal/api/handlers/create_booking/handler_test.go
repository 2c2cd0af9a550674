package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	bookSlot "github.com/m04kA/SMC-GroundBooking/internal/usecase/book_slot"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
)

type fakeUseCase struct {
	got  *bookSlot.Request
	resp *bookSlot.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *bookSlot.Request) (*bookSlot.Response, error) {
	f.got = req
	return f.resp, f.err
}

func newRequest(body string, userID int64) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID > 0 {
		r = r.WithContext(middleware.WithCaller(r.Context(), userID, domain.RoleCaptain))
	}
	return r
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &bookSlot.Response{
		ID:            9,
		SlotID:        3,
		TeamID:        77,
		TeamName:      "Falcons",
		Status:        string(domain.StatusConfirmed),
		PaymentStatus: string(domain.PaymentPending),
		Capacity:      10,
		BookedCount:   4,
		Remaining:     6,
		CreatedAt:     time.Date(2030, 5, 10, 8, 0, 0, 0, time.UTC),
	}}
	h := NewHandler(uc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(`{"slotId":3}`, 42))

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(42), uc.got.UserID)
	assert.Equal(t, int64(3), uc.got.SlotID)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(9), resp.ID)
	assert.Equal(t, "Falcons", resp.TeamName)
	assert.Equal(t, 6, resp.Slot.Remaining)
	assert.Equal(t, "2030-05-10T08:00:00Z", resp.CreatedAt)
}

func TestHandle_BadInput(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, logger.NewNop())

	tests := []struct {
		name   string
		body   string
		userID int64
		want   int
	}{
		{name: "no caller", body: `{"slotId":3}`, want: http.StatusUnauthorized},
		{name: "broken json", body: `{"slotId":`, userID: 42, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"slotId":3,"teamId":5}`, userID: 42, want: http.StatusBadRequest},
		{name: "missing slot", body: `{}`, userID: 42, want: http.StatusBadRequest},
		{name: "negative slot", body: `{"slotId":-1}`, userID: 42, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.body, tt.userID))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: domain.ErrTeamNotFound, want: http.StatusForbidden},
		{err: domain.ErrSlotNotFound, want: http.StatusNotFound},
		{err: domain.ErrSlotDisabled, want: http.StatusUnprocessableEntity},
		{err: domain.ErrSlotExpired, want: http.StatusUnprocessableEntity},
		{err: domain.ErrInsufficientRoster, want: http.StatusUnprocessableEntity},
		{err: domain.ErrAlreadyBooked, want: http.StatusConflict},
		{err: domain.ErrSlotFull, want: http.StatusConflict},
		{err: fmt.Errorf("%w: slot id=3", domain.ErrSlotBusy), want: http.StatusServiceUnavailable},
		{err: domain.ErrConsistencyViolation, want: http.StatusInternalServerError},
		{err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())
			w := httptest.NewRecorder()
			h.Handle(w, newRequest(`{"slotId":3}`, 42))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
