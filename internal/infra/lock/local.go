package lock

import (
	"context"
	"fmt"
	"sync"
)

// Local блокировки по ключу в памяти процесса.
// Запись по ключу живёт, пока есть владелец или ожидающие
type Local struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

type localEntry struct {
	sem  chan struct{}
	refs int
}

// NewLocal создает пустой набор блокировок
func NewLocal() *Local {
	return &Local{entries: make(map[string]*localEntry)}
}

// Lock ждёт освобождения ключа или отмены ctx
func (l *Local) Lock(ctx context.Context, key string) (Unlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, err)
	}

	e := l.acquireEntry(key)

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				l.releaseEntry(key, e)
			})
		}, nil
	case <-ctx.Done():
		l.releaseEntry(key, e)
		return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
	}
}

func (l *Local) acquireEntry(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Local) releaseEntry(key string, e *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// size количество живых ключей
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
