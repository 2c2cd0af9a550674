package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/lock"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	CreateIfNotExists(ctx context.Context, slot *domain.Slot) (*domain.Slot, bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
	Update(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	SetDisabledByDate(ctx context.Context, date time.Time, disabled bool) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker блокировка слота, общая с движком бронирования
type Locker interface {
	Lock(ctx context.Context, key string) (lock.Unlock, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
