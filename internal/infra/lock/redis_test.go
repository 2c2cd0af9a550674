package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis эмулирует SET NX и скрипт освобождения
type fakeRedis struct {
	mu     sync.Mutex
	keys   map[string]string
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{keys: make(map[string]string)}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[keys[0]] == fmt.Sprint(args[0]) {
		delete(f.keys, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestRedis_LockAndRelease(t *testing.T) {
	client := newFakeRedis()
	l := NewRedis(client, RedisConfig{Prefix: "ground:", RetryInterval: time.Millisecond}, nopLogger{})

	unlock, err := l.Lock(context.Background(), SlotKey(5))
	require.NoError(t, err)
	assert.Contains(t, client.keys, "ground:slot:5")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, SlotKey(5))
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	assert.NotContains(t, client.keys, "ground:slot:5")

	again, err := l.Lock(context.Background(), SlotKey(5))
	require.NoError(t, err)
	again()
}

func TestRedis_WaitsForRelease(t *testing.T) {
	client := newFakeRedis()
	l := NewRedis(client, RedisConfig{RetryInterval: time.Millisecond}, nopLogger{})

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	second, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	second()
}

func TestRedis_BackendError(t *testing.T) {
	client := newFakeRedis()
	client.setErr = errors.New("connection refused")
	l := NewRedis(client, RedisConfig{}, nopLogger{})

	_, err := l.Lock(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockUnavailable)
}
