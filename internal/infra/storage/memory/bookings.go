package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
)

// BookingRepository in-memory аналог booking.Repository
type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s := r.store
	onRollback, unlock, err := s.write(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if booking.Status == domain.StatusConfirmed {
		for _, existing := range s.bookings {
			if existing.IsConfirmed() && existing.SlotID == booking.SlotID && existing.TeamID == booking.TeamID {
				return nil, bookingRepo.ErrDuplicateConfirmed
			}
		}
	}

	s.nextBookingID++
	now := s.now()
	stored := cloneBooking(booking)
	stored.ID = s.nextBookingID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.bookings[stored.ID] = stored

	id := stored.ID
	onRollback(func() { delete(s.bookings, id) })

	return cloneBooking(stored), nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	defer r.store.read(ctx)()

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) HasConfirmed(ctx context.Context, slotID, teamID int64) (bool, error) {
	defer r.store.read(ctx)()

	for _, b := range r.store.bookings {
		if b.IsConfirmed() && b.SlotID == slotID && b.TeamID == teamID {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookingRepository) ListConfirmedBySlotIDs(ctx context.Context, slotIDs []int64) ([]*domain.Booking, error) {
	ids := make(map[int64]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		ids[id] = struct{}{}
	}
	return r.filter(ctx, false, func(b *domain.Booking) bool {
		_, ok := ids[b.SlotID]
		return ok && b.IsConfirmed()
	}), nil
}

func (r *BookingRepository) ListByTeam(ctx context.Context, teamID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return r.filter(ctx, true, func(b *domain.Booking) bool {
		return b.TeamID == teamID && (status == nil || b.Status == *status)
	}), nil
}

func (r *BookingRepository) ListBySlot(ctx context.Context, slotID int64, includeCancelled bool) ([]*domain.Booking, error) {
	return r.filter(ctx, false, func(b *domain.Booking) bool {
		return b.SlotID == slotID && (includeCancelled || b.IsConfirmed())
	}), nil
}

func (r *BookingRepository) Cancel(ctx context.Context, id int64, by domain.CancelledBy, at time.Time) (*domain.Booking, error) {
	s := r.store
	onRollback, unlock, err := s.write(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, ok := s.bookings[id]
	if !ok || !b.IsConfirmed() {
		return nil, bookingRepo.ErrNotConfirmed
	}

	prev := cloneBooking(b)
	b.Status = domain.StatusCancelled
	b.CancelledAt = &at
	b.CancelledBy = &by
	b.UpdatedAt = s.now()
	onRollback(func() { *b = *prev })

	return cloneBooking(b), nil
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Booking, error) {
	s := r.store
	onRollback, unlock, err := s.write(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}

	prev := cloneBooking(b)
	b.PaymentStatus = status
	b.UpdatedAt = s.now()
	onRollback(func() { *b = *prev })

	return cloneBooking(b), nil
}

// filter возвращает копии подходящих бронирований: по возрастанию даты
// создания или по убыванию (newestFirst), как сортирует PostgreSQL репозиторий
func (r *BookingRepository) filter(ctx context.Context, newestFirst bool, match func(*domain.Booking) bool) []*domain.Booking {
	defer r.store.read(ctx)()

	out := make([]*domain.Booking, 0)
	for _, b := range r.store.bookings {
		if match(b) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out
}
