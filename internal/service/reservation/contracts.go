package reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/lock"
)

// SlotRepository хранилище слотов и их счётчиков
type SlotRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Slot, error)
	IncrementBookedCount(ctx context.Context, id int64) (*domain.Slot, error)
	DecrementBookedCount(ctx context.Context, id int64) (*domain.Slot, error)
}

// BookingRepository журнал бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	HasConfirmed(ctx context.Context, slotID, teamID int64) (bool, error)
	Cancel(ctx context.Context, id int64, by domain.CancelledBy, at time.Time) (*domain.Booking, error)
	ListConfirmedBySlotIDs(ctx context.Context, slotIDs []int64) ([]*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker блокировка слота на время book/cancel
type Locker interface {
	Lock(ctx context.Context, key string) (lock.Unlock, error)
}

// Metrics счётчики исходов операций
type Metrics interface {
	ObserveReservation(operation, outcome string)
	IncConsistencyViolation(source string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopMetrics struct{}

func (noopMetrics) ObserveReservation(string, string) {}
func (noopMetrics) IncConsistencyViolation(string)    {}
