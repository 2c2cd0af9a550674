package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLockTimeout возвращается, если блокировку не удалось получить до отмены контекста
	ErrLockTimeout = errors.New("lock: acquisition timed out")

	// ErrLockUnavailable возвращается, если хранилище блокировок недоступно
	ErrLockUnavailable = errors.New("lock: backend unavailable")
)

// Unlock освобождает блокировку. Повторный вызов безопасен
type Unlock func()

// Locker эксклюзивная блокировка по ключу
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// SlotKey ключ блокировки слота. Операции над разными слотами не пересекаются
func SlotKey(slotID int64) string {
	return fmt.Sprintf("slot:%d", slotID)
}

// WaitObserver получатель длительности ожидания блокировки
type WaitObserver interface {
	ObserveLockWait(driver string, acquired bool, duration time.Duration)
}

type instrumented struct {
	next     Locker
	driver   string
	observer WaitObserver
}

// Instrument оборачивает Locker сбором метрик ожидания
func Instrument(next Locker, driver string, observer WaitObserver) Locker {
	if observer == nil {
		return next
	}
	return &instrumented{next: next, driver: driver, observer: observer}
}

func (i *instrumented) Lock(ctx context.Context, key string) (Unlock, error) {
	start := time.Now()
	unlock, err := i.next.Lock(ctx, key)
	i.observer.ObserveLockWait(i.driver, err == nil, time.Since(start))
	return unlock, err
}
