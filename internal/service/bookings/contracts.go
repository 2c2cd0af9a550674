package bookings

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByTeam(ctx context.Context, teamID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	ListBySlot(ctx context.Context, slotID int64, includeCancelled bool) ([]*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Booking, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// TeamServiceClient интерфейс клиента для TeamService
type TeamServiceClient interface {
	GetCaptainTeam(ctx context.Context, userID int64) (*domain.Team, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
