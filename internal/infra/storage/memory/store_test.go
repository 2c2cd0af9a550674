package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

var testDate = time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC)

func newSlot(start, end string, capacity int) *domain.Slot {
	return &domain.Slot{Date: testDate, StartTime: types.TimeString(start), EndTime: types.TimeString(end), Capacity: capacity}
}

func TestSlotRepository_CreateRejectsDuplicateWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Slots()

	created, err := repo.Create(ctx, newSlot("18:00", "20:00", 2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = repo.Create(ctx, newSlot("18:00", "20:00", 4))
	assert.ErrorIs(t, err, slotRepo.ErrSlotAlreadyExists)

	_, ok, err := repo.CreateIfNotExists(ctx, newSlot("18:00", "20:00", 4))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotRepository_ConditionalCounter(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Slots()
	slot, err := repo.Create(ctx, newSlot("08:00", "09:00", 1))
	require.NoError(t, err)

	_, err = repo.DecrementBookedCount(ctx, slot.ID)
	assert.ErrorIs(t, err, slotRepo.ErrCounterUnderflow)

	updated, err := repo.IncrementBookedCount(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.BookedCount)

	_, err = repo.IncrementBookedCount(ctx, slot.ID)
	assert.ErrorIs(t, err, slotRepo.ErrCapacityExceeded)

	assert.ErrorIs(t, repo.Delete(ctx, slot.ID), slotRepo.ErrSlotHasBookings)
	assert.ErrorIs(t, repo.Delete(ctx, 999), slotRepo.ErrSlotNotFound)
}

func TestStore_RollbackUndoesAllWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	slots, bookings := store.Slots(), store.Bookings()
	slot, err := slots.Create(ctx, newSlot("10:00", "11:00", 3))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Do(ctx, func(txCtx context.Context) error {
		if _, err := slots.IncrementBookedCount(txCtx, slot.ID); err != nil {
			return err
		}
		if _, err := bookings.Create(txCtx, &domain.Booking{SlotID: slot.ID, TeamID: 1, Status: domain.StatusConfirmed}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	reloaded, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.BookedCount)

	list, err := bookings.ListBySlot(ctx, slot.ID, true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ReadOnlyRejectsWrites(t *testing.T) {
	store := NewStore()
	err := store.DoReadOnly(context.Background(), func(ctx context.Context) error {
		_, err := store.Slots().Create(ctx, newSlot("10:00", "11:00", 1))
		return err
	})
	assert.ErrorIs(t, err, ErrReadOnlyTx)
}

func TestBookingRepository_OneConfirmedPerTeam(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Bookings()

	first, err := repo.Create(ctx, &domain.Booking{SlotID: 1, TeamID: 7, Status: domain.StatusConfirmed})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Booking{SlotID: 1, TeamID: 7, Status: domain.StatusConfirmed})
	assert.ErrorIs(t, err, bookingRepo.ErrDuplicateConfirmed)

	_, err = repo.Cancel(ctx, first.ID, domain.CancelledByTeam, time.Now())
	require.NoError(t, err)

	_, err = repo.Cancel(ctx, first.ID, domain.CancelledByTeam, time.Now())
	assert.ErrorIs(t, err, bookingRepo.ErrNotConfirmed)

	_, err = repo.Create(ctx, &domain.Booking{SlotID: 1, TeamID: 7, Status: domain.StatusConfirmed})
	assert.NoError(t, err)

	history, err := repo.ListByTeam(ctx, 7, nil)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Greater(t, history[0].ID, history[1].ID)
}

func TestSlotRepository_FindCountMismatches(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	slot, err := store.Slots().Create(ctx, newSlot("10:00", "11:00", 3))
	require.NoError(t, err)

	mismatches, err := store.Slots().FindCountMismatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	store.CorruptBookedCount(slot.ID, 2)

	mismatches, err = store.Slots().FindCountMismatches(ctx)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, domain.CountMismatch{SlotID: slot.ID, BookedCount: 2, ConfirmedCount: 0}, mismatches[0])
}
