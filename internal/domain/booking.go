package domain

import "time"

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus is written by the payment verification workflow.
// The reservation engine never reads it.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSubmitted PaymentStatus = "submitted"
	PaymentVerified  PaymentStatus = "verified"
	PaymentRejected  PaymentStatus = "rejected"
)

// CancelledBy records who cancelled a booking
type CancelledBy string

const (
	CancelledByTeam  CancelledBy = "team"
	CancelledByAdmin CancelledBy = "admin"
)

// Booking is a team's claim on one unit of a slot's capacity.
// Bookings are never deleted; cancellation is the only transition.
type Booking struct {
	ID            int64
	SlotID        int64
	TeamID        int64
	TeamName      string // denormalized for listings
	Status        BookingStatus
	PaymentStatus PaymentStatus

	CancelledAt *time.Time
	CancelledBy *CancelledBy

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed returns true if the booking currently holds capacity
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsOwnedBy returns true if the booking belongs to the team
func (b *Booking) IsOwnedBy(teamID int64) bool {
	return b.TeamID == teamID
}

// ParseBookingStatus validates a raw status value
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusConfirmed, StatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", ErrInvalidInput
	}
}

// ParsePaymentStatus validates a raw payment status value
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentSubmitted, PaymentVerified, PaymentRejected:
		return PaymentStatus(s), nil
	default:
		return "", ErrInvalidInput
	}
}
