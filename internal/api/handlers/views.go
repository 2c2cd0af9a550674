package handlers

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/readmodel"
)

// BookedTeamResponse команда с подтверждённым бронированием слота
type BookedTeamResponse struct {
	BookingID int64     `json:"bookingId"`
	TeamID    int64     `json:"teamId"`
	TeamName  string    `json:"teamName"`
	BookedAt  time.Time `json:"bookedAt"`
}

// SlotAvailabilityResponse слот в выдаче доступности
type SlotAvailabilityResponse struct {
	ID          int64                `json:"id"`
	Date        string               `json:"date"`
	StartTime   string               `json:"startTime"`
	EndTime     string               `json:"endTime"`
	Capacity    int                  `json:"capacity"`
	BookedCount int                  `json:"bookedCount"`
	Remaining   int                  `json:"remaining"`
	IsFull      bool                 `json:"isFull"`
	Disabled    bool                 `json:"disabled"`
	Expired     bool                 `json:"expired"`
	Bookable    bool                 `json:"bookable"`
	BookedTeams []BookedTeamResponse `json:"bookedTeams"`
}

// DayAvailabilityResponse слоты одной даты
type DayAvailabilityResponse struct {
	Date  string                     `json:"date"`
	Slots []SlotAvailabilityResponse `json:"slots"`
}

// FromDayView конвертирует проекцию дня в DTO
func FromDayView(day readmodel.DayView) DayAvailabilityResponse {
	resp := DayAvailabilityResponse{
		Date:  day.Date.Format(domain.DateFormat),
		Slots: make([]SlotAvailabilityResponse, 0, len(day.Slots)),
	}

	for _, v := range day.Slots {
		teams := make([]BookedTeamResponse, 0, len(v.BookedTeams))
		for _, t := range v.BookedTeams {
			teams = append(teams, BookedTeamResponse{
				BookingID: t.BookingID,
				TeamID:    t.TeamID,
				TeamName:  t.TeamName,
				BookedAt:  t.BookedAt,
			})
		}

		resp.Slots = append(resp.Slots, SlotAvailabilityResponse{
			ID:          v.ID,
			Date:        v.Date.Format(domain.DateFormat),
			StartTime:   v.StartTime.String(),
			EndTime:     v.EndTime.String(),
			Capacity:    v.Capacity,
			BookedCount: v.BookedCount,
			Remaining:   v.Remaining,
			IsFull:      v.IsFull,
			Disabled:    v.Disabled,
			Expired:     v.Expired,
			Bookable:    v.Bookable(),
			BookedTeams: teams,
		})
	}

	return resp
}
