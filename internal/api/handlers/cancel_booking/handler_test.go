package cancel_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	cancelBooking "github.com/m04kA/SMC-GroundBooking/internal/usecase/cancel_booking"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
)

type fakeUseCase struct {
	got  *cancelBooking.Request
	resp *cancelBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

func newRequest(bookingID string, userID int64, role domain.Role) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/cancel", nil)
	r = mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
	if userID > 0 {
		r = r.WithContext(middleware.WithCaller(r.Context(), userID, role))
	}
	return r
}

func TestHandle_Cancelled(t *testing.T) {
	uc := &fakeUseCase{resp: &cancelBooking.Response{
		ID:          5,
		SlotID:      3,
		TeamID:      77,
		Status:      string(domain.StatusCancelled),
		CancelledBy: string(domain.CancelledByAdmin),
		CancelledAt: time.Date(2030, 5, 10, 9, 0, 0, 0, time.UTC),
		Remaining:   1,
	}}
	h := NewHandler(uc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest("5", 1, domain.RoleAdmin))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(5), uc.got.BookingID)
	assert.Equal(t, domain.RoleAdmin, uc.got.Role)

	var resp CancelBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.CancelledBy)
	assert.Equal(t, 1, resp.Remaining)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name      string
		bookingID string
		userID    int64
		err       error
		want      int
	}{
		{name: "bad id", bookingID: "x", userID: 42, want: http.StatusBadRequest},
		{name: "zero id", bookingID: "0", userID: 42, want: http.StatusBadRequest},
		{name: "no caller", bookingID: "5", want: http.StatusUnauthorized},
		{name: "not found", bookingID: "5", userID: 42, err: domain.ErrBookingNotFound, want: http.StatusNotFound},
		{name: "foreign booking", bookingID: "5", userID: 42, err: domain.ErrNotAuthorized, want: http.StatusForbidden},
		{name: "busy", bookingID: "5", userID: 42, err: domain.ErrSlotBusy, want: http.StatusServiceUnavailable},
		{name: "violation", bookingID: "5", userID: 42, err: domain.ErrConsistencyViolation, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())
			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.bookingID, tt.userID, domain.RoleCaptain))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
