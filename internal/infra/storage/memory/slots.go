package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/slot"
)

// SlotRepository in-memory аналог slot.Repository
type SlotRepository struct {
	store *Store
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	created, ok, err := r.CreateIfNotExists(ctx, slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, slotRepo.ErrSlotAlreadyExists
	}
	return created, nil
}

func (r *SlotRepository) CreateIfNotExists(ctx context.Context, slot *domain.Slot) (*domain.Slot, bool, error) {
	s := r.store
	onRollback, unlock, err := s.write(ctx)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	if s.findWindow(slot, 0) != nil {
		return nil, false, nil
	}

	s.nextSlotID++
	now := s.now()
	stored := cloneSlot(slot)
	stored.ID = s.nextSlotID
	stored.Date = domain.DateOnly(slot.Date)
	stored.BookedCount = 0
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.slots[stored.ID] = stored

	id := stored.ID
	onRollback(func() { delete(s.slots, id) })

	return cloneSlot(stored), true, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	defer r.store.read(ctx)()

	slot, ok := r.store.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return cloneSlot(slot), nil
}

// GetByIDForUpdate совпадает с GetByID: транзакция хранилища уже эксклюзивна
func (r *SlotRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.GetByID(ctx, id)
}

func (r *SlotRepository) ListByDate(ctx context.Context, date time.Time) ([]*domain.Slot, error) {
	return r.ListByDateRange(ctx, date, date)
}

func (r *SlotRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Slot, error) {
	defer r.store.read(ctx)()

	from, to = domain.DateOnly(from), domain.DateOnly(to)
	slots := make([]*domain.Slot, 0)
	for _, slot := range r.store.slots {
		if slot.Date.Before(from) || slot.Date.After(to) {
			continue
		}
		slots = append(slots, cloneSlot(slot))
	}

	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		if a.EndTime != b.EndTime {
			return a.EndTime.IsBefore(b.EndTime)
		}
		return a.ID < b.ID
	})
	return slots, nil
}

func (r *SlotRepository) IncrementBookedCount(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.adjust(ctx, id, +1)
}

func (r *SlotRepository) DecrementBookedCount(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.adjust(ctx, id, -1)
}

func (r *SlotRepository) adjust(ctx context.Context, id int64, delta int) (*domain.Slot, error) {
	s := r.store
	onRollback, unlock, err := s.write(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	slot, ok := s.slots[id]
	if !ok {
		if delta > 0 {
			return nil, slotRepo.ErrCapacityExceeded
		}
		return nil, slotRepo.ErrCounterUnderflow
	}
	if delta > 0 && slot.BookedCount >= slot.Capacity {
		return nil, slotRepo.ErrCapacityExceeded
	}
	if delta < 0 && slot.BookedCount <= 0 {
		return nil, slotRepo.ErrCounterUnderflow
	}

	prev := *slot
	slot.BookedCount += delta
	slot.UpdatedAt = s.now()
	onRollback(func() { *slot = prev })

	return cloneSlot(slot), nil
}

func (r *SlotRepository) Update(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	s := r.store
	onRollback, unlock, err := s.write(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	stored, ok := s.slots[slot.ID]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	if s.findWindow(slot, slot.ID) != nil {
		return nil, slotRepo.ErrSlotAlreadyExists
	}

	prev := *stored
	stored.Date = domain.DateOnly(slot.Date)
	stored.StartTime = slot.StartTime
	stored.EndTime = slot.EndTime
	stored.Capacity = slot.Capacity
	stored.Disabled = slot.Disabled
	stored.UpdatedAt = s.now()
	onRollback(func() { *stored = prev })

	return cloneSlot(stored), nil
}

func (r *SlotRepository) SetDisabledByDate(ctx context.Context, date time.Time, disabled bool) (int64, error) {
	s := r.store
	onRollback, unlock, err := s.write(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var affected int64
	now := s.now()
	for _, slot := range s.slots {
		if !domain.SameDate(slot.Date, date) || slot.Disabled == disabled {
			continue
		}
		prev := *slot
		stored := slot
		slot.Disabled = disabled
		slot.UpdatedAt = now
		onRollback(func() { *stored = prev })
		affected++
	}
	return affected, nil
}

func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	onRollback, unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	slot, ok := s.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	if slot.BookedCount > 0 {
		return slotRepo.ErrSlotHasBookings
	}

	delete(s.slots, id)
	onRollback(func() { s.slots[id] = slot })
	return nil
}

func (r *SlotRepository) FindCountMismatches(ctx context.Context) ([]domain.CountMismatch, error) {
	s := r.store
	defer s.read(ctx)()

	confirmed := make(map[int64]int, len(s.slots))
	for _, b := range s.bookings {
		if b.IsConfirmed() {
			confirmed[b.SlotID]++
		}
	}

	mismatches := make([]domain.CountMismatch, 0)
	for id, slot := range s.slots {
		if slot.BookedCount != confirmed[id] {
			mismatches = append(mismatches, domain.CountMismatch{
				SlotID:         id,
				BookedCount:    slot.BookedCount,
				ConfirmedCount: confirmed[id],
			})
		}
	}
	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].SlotID < mismatches[j].SlotID })
	return mismatches, nil
}

// findWindow ищет слот с тем же (дата, начало, конец), кроме exceptID.
// Вызывается под блокировкой
func (s *Store) findWindow(slot *domain.Slot, exceptID int64) *domain.Slot {
	for id, existing := range s.slots {
		if id != exceptID && existing.SameWindow(slot) {
			return existing
		}
	}
	return nil
}
