package domain

import "errors"

// Booking-time rejections
var (
	ErrSlotNotFound       = errors.New("slot not found")
	ErrSlotDisabled       = errors.New("slot is disabled")
	ErrSlotExpired        = errors.New("slot has already started")
	ErrInsufficientRoster = errors.New("team roster is below the minimum")
	ErrAlreadyBooked      = errors.New("team already holds a confirmed booking for this slot")
	ErrSlotFull           = errors.New("slot has no remaining capacity")
	ErrSlotBusy           = errors.New("slot is locked by another operation, retry later")
)

// Cancellation-time rejections
var (
	ErrBookingNotFound = errors.New("booking not found or already cancelled")
	ErrNotAuthorized   = errors.New("requester may not act on this booking")
)

// Administration rejections
var (
	ErrSlotHasBookings   = errors.New("slot has confirmed bookings")
	ErrSlotAlreadyExists = errors.New("slot with the same date and time already exists")
	ErrInvalidTimeRange  = errors.New("start time must be before end time")
	ErrInvalidCapacity   = errors.New("capacity must be at least 1")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrInvalidInput      = errors.New("invalid input data")
)

// ErrConsistencyViolation means booked_count and confirmed bookings disagree.
// It indicates a concurrency bug and is never corrected automatically.
var ErrConsistencyViolation = errors.New("slot booked count is inconsistent with confirmed bookings")

// ErrTeamNotFound means the caller is not the captain of any team
var ErrTeamNotFound = errors.New("caller has no team")
