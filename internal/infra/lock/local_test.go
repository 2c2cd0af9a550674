package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_MutualExclusion(t *testing.T) {
	l := NewLocal()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), SlotKey(1))
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.size())
}

func TestLocal_TimeoutLeavesNoEntry(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), SlotKey(1))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, SlotKey(1))
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock() // повторный вызов безопасен
	assert.Equal(t, 0, l.size())
}

func TestLocal_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), SlotKey(1))
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	other, err := l.Lock(ctx, SlotKey(2))
	require.NoError(t, err)
	other()
}

type recordingObserver struct {
	calls []bool
}

func (r *recordingObserver) ObserveLockWait(_ string, acquired bool, _ time.Duration) {
	r.calls = append(r.calls, acquired)
}

func TestInstrument(t *testing.T) {
	obs := &recordingObserver{}
	l := Instrument(NewLocal(), "local", obs)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, "k")
	assert.Error(t, err)
	unlock()

	assert.Equal(t, []bool{true, false}, obs.calls)
}
