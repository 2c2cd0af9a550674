package domain

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

// Slot is a fixed same-day time window on the ground that up to Capacity
// teams may hold at once.
type Slot struct {
	ID          int64
	Date        time.Time // calendar date, time part is ignored
	StartTime   types.TimeString
	EndTime     types.TimeString
	Capacity    int
	BookedCount int // confirmed bookings referencing this slot
	Disabled    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns free capacity, clamped at zero when capacity was
// reduced below the number of existing bookings.
func (s *Slot) Remaining() int {
	if r := s.Capacity - s.BookedCount; r > 0 {
		return r
	}
	return 0
}

// IsFull returns true if no more teams may book the slot
func (s *Slot) IsFull() bool {
	return s.Remaining() <= 0
}

// StartsAt returns the instant the slot begins in loc
func (s *Slot) StartsAt(loc *time.Location) (time.Time, error) {
	return s.StartTime.On(s.Date, loc)
}

// HasStarted returns true if the slot start is not after now
func (s *Slot) HasStarted(now time.Time, loc *time.Location) (bool, error) {
	start, err := s.StartsAt(loc)
	if err != nil {
		return false, err
	}
	return !now.Before(start), nil
}

// Availability returns the capacity snapshot of the slot
func (s *Slot) Availability() SlotAvailability {
	return SlotAvailability{
		SlotID:      s.ID,
		Capacity:    s.Capacity,
		BookedCount: s.BookedCount,
		Remaining:   s.Remaining(),
		IsFull:      s.IsFull(),
	}
}

// SameWindow reports whether both slots describe the same (date, start, end) tuple
func (s *Slot) SameWindow(other *Slot) bool {
	return SameDate(s.Date, other.Date) && s.StartTime == other.StartTime && s.EndTime == other.EndTime
}

// SlotAvailability is the capacity state of a slot right after a book or cancel
type SlotAvailability struct {
	SlotID      int64
	Capacity    int
	BookedCount int
	Remaining   int
	IsFull      bool
}

// TimeTemplate is a daily start/end pair used for bulk slot generation
type TimeTemplate struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Validate checks that the template describes a non-empty window
func (t TimeTemplate) Validate() error {
	return ValidateTimeRange(t.StartTime, t.EndTime)
}

// ValidateTimeRange checks both times are well formed and start < end
func ValidateTimeRange(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return ErrInvalidTimeRange
	}
	if err := end.Validate(); err != nil {
		return ErrInvalidTimeRange
	}
	if !start.IsBefore(end) {
		return ErrInvalidTimeRange
	}
	return nil
}

// CountMismatch describes a slot whose stored counter disagrees with its bookings
type CountMismatch struct {
	SlotID         int64
	BookedCount    int
	ConfirmedCount int
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date
func SameDate(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
