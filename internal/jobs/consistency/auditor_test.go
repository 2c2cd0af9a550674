package consistency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingMetrics) IncConsistencyViolation(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[source]++
}

func (m *countingMetrics) get(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[source]
}

type failingSlots struct{}

func (failingSlots) FindCountMismatches(context.Context) ([]domain.CountMismatch, error) {
	return nil, errors.New("connection reset")
}

func seedSlot(t *testing.T, store *memory.Store, start, end string) *domain.Slot {
	t.Helper()
	slot, err := store.Slots().Create(context.Background(), &domain.Slot{
		Date:      time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
		Capacity:  4,
	})
	require.NoError(t, err)
	return slot
}

func TestRunOnce_ReportsWithoutFixing(t *testing.T) {
	store := memory.NewStore()
	ok := seedSlot(t, store, "18:00", "19:00")
	broken := seedSlot(t, store, "19:00", "20:00")
	store.CorruptBookedCount(broken.ID, 2)

	m := &countingMetrics{}
	a := NewAuditor(store.Slots(), m, "@every 1h", logger.NewNop())

	found, err := a.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, found)
	assert.Equal(t, 1, m.get("audit"))

	got, err := store.Slots().GetByID(context.Background(), broken.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.BookedCount)

	got, err = store.Slots().GetByID(context.Background(), ok.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.BookedCount)
}

func TestRunOnce_Clean(t *testing.T) {
	store := memory.NewStore()
	seedSlot(t, store, "18:00", "19:00")

	m := &countingMetrics{}
	found, err := NewAuditor(store.Slots(), m, "@every 1h", logger.NewNop()).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, found)
	assert.Zero(t, m.get("audit"))
}

func TestRunOnce_RepositoryError(t *testing.T) {
	_, err := NewAuditor(failingSlots{}, nil, "@every 1h", logger.NewNop()).RunOnce(context.Background())
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	store := memory.NewStore()
	a := NewAuditor(store.Slots(), &countingMetrics{}, "@every 1h", logger.NewNop())

	require.NoError(t, a.Start())
	require.NoError(t, a.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	a.Stop(ctx)
	a.Stop(ctx)
}

func TestStart_InvalidSchedule(t *testing.T) {
	a := NewAuditor(memory.NewStore().Slots(), nil, "every tuesday", logger.NewNop())
	assert.Error(t, a.Start())
}
