// Package readmodel projects slots and their confirmed bookings into the
// availability views rendered by booking and admin calendar screens.
// Views are always derived, never stored.
package readmodel

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

// BookedTeam is a team holding a confirmed booking on a slot
type BookedTeam struct {
	BookingID int64
	TeamID    int64
	TeamName  string
	BookedAt  time.Time
}

// SlotView is the availability of one slot at a single snapshot
type SlotView struct {
	ID          int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Capacity    int
	BookedCount int
	Remaining   int
	IsFull      bool
	Disabled    bool
	Expired     bool
	BookedTeams []BookedTeam

	// Inconsistent is set when BookedCount differs from len(BookedTeams)
	Inconsistent bool
}

// Bookable reports whether a new booking could currently succeed on capacity grounds
func (v SlotView) Bookable() bool {
	return !v.Disabled && !v.Expired && !v.IsFull
}

// DayView groups slot views of one calendar date
type DayView struct {
	Date  time.Time
	Slots []SlotView
}

// Project builds slot views from slots and bookings read in the same snapshot.
// Bookings that are not confirmed or reference unknown slots are ignored.
func Project(slots []*domain.Slot, bookings []*domain.Booking, now time.Time, loc *time.Location) []SlotView {
	bySlot := make(map[int64][]BookedTeam, len(slots))
	for _, b := range bookings {
		if !b.IsConfirmed() {
			continue
		}
		bySlot[b.SlotID] = append(bySlot[b.SlotID], BookedTeam{
			BookingID: b.ID,
			TeamID:    b.TeamID,
			TeamName:  b.TeamName,
			BookedAt:  b.CreatedAt,
		})
	}

	views := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		teams := bySlot[s.ID]
		if teams == nil {
			teams = []BookedTeam{}
		}
		sort.SliceStable(teams, func(i, j int) bool {
			if !teams[i].BookedAt.Equal(teams[j].BookedAt) {
				return teams[i].BookedAt.Before(teams[j].BookedAt)
			}
			return teams[i].BookingID < teams[j].BookingID
		})

		// Некорректное время слота считаем истёкшим: бронировать его нельзя
		expired, err := s.HasStarted(now, loc)
		if err != nil {
			expired = true
		}

		views = append(views, SlotView{
			ID:           s.ID,
			Date:         domain.DateOnly(s.Date),
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			Capacity:     s.Capacity,
			BookedCount:  s.BookedCount,
			Remaining:    s.Remaining(),
			IsFull:       s.IsFull(),
			Disabled:     s.Disabled,
			Expired:      expired,
			BookedTeams:  teams,
			Inconsistent: s.BookedCount != len(teams),
		})
	}

	sortViews(views)
	return views
}

// GroupByDate groups views by calendar date in ascending order
func GroupByDate(views []SlotView) []DayView {
	sorted := make([]SlotView, len(views))
	copy(sorted, views)
	sortViews(sorted)

	days := make([]DayView, 0)
	for _, v := range sorted {
		if n := len(days); n > 0 && domain.SameDate(days[n-1].Date, v.Date) {
			days[n-1].Slots = append(days[n-1].Slots, v)
			continue
		}
		days = append(days, DayView{Date: domain.DateOnly(v.Date), Slots: []SlotView{v}})
	}
	return days
}

// Inconsistent returns the views whose counter disagrees with their bookings
func Inconsistent(views []SlotView) []SlotView {
	out := make([]SlotView, 0)
	for _, v := range views {
		if v.Inconsistent {
			out = append(out, v)
		}
	}
	return out
}

func sortViews(views []SlotView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		if a.EndTime != b.EndTime {
			return a.EndTime.IsBefore(b.EndTime)
		}
		return a.ID < b.ID
	})
}
