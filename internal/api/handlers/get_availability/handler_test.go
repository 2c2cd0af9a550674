package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/readmodel"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
)

type fakeService struct {
	got time.Time
	day *readmodel.DayView
}

func (f *fakeService) AvailabilityForDate(_ context.Context, date time.Time) (*readmodel.DayView, error) {
	f.got = date
	return f.day, nil
}

func TestHandle_RendersDay(t *testing.T) {
	date := time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC)
	bookedAt := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := &fakeService{day: &readmodel.DayView{
		Date: date,
		Slots: []readmodel.SlotView{
			{
				ID: 1, Date: date, StartTime: "18:00", EndTime: "20:00",
				Capacity: 2, BookedCount: 2, Remaining: 0, IsFull: true,
				BookedTeams: []readmodel.BookedTeam{
					{BookingID: 10, TeamID: 7, TeamName: "Falcons", BookedAt: bookedAt},
					{BookingID: 11, TeamID: 8, TeamName: "Hawks", BookedAt: bookedAt.Add(time.Minute)},
				},
			},
			{
				ID: 2, Date: date, StartTime: "20:00", EndTime: "21:00",
				Capacity: 4, Remaining: 4, Disabled: true, BookedTeams: []readmodel.BookedTeam{},
			},
		},
	}}
	h := NewHandler(svc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/slots/availability?date=2030-05-10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, date, svc.got)

	var resp handlers.DayAvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2030-05-10", resp.Date)
	require.Len(t, resp.Slots, 2)

	full := resp.Slots[0]
	assert.Equal(t, "18:00", full.StartTime)
	assert.True(t, full.IsFull)
	assert.False(t, full.Bookable)
	require.Len(t, full.BookedTeams, 2)
	assert.Equal(t, "Falcons", full.BookedTeams[0].TeamName)

	disabled := resp.Slots[1]
	assert.True(t, disabled.Disabled)
	assert.False(t, disabled.Bookable)
	assert.NotNil(t, disabled.BookedTeams)
	assert.Empty(t, disabled.BookedTeams)
}

func TestHandle_InvalidDate(t *testing.T) {
	h := NewHandler(&fakeService{}, logger.NewNop())

	for _, raw := range []string{"", "10.05.2030", "2030-13-01"} {
		w := httptest.NewRecorder()
		h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/slots/availability?date="+raw, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}
}
