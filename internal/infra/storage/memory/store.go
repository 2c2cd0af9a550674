package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// ErrReadOnlyTx возвращается при попытке записи внутри DoReadOnly
var ErrReadOnlyTx = errors.New("memory.store: write inside read-only transaction")

type txKey struct{}

type txState struct {
	readOnly bool
	undo     []func()
}

// Store хранилище слотов и бронирований в памяти процесса.
// Реализует те же контракты, что и PostgreSQL репозитории, и менеджер транзакций:
// транзакция держит блокировку всего хранилища и откатывается журналом undo
type Store struct {
	mu sync.RWMutex

	slots    map[int64]*domain.Slot
	bookings map[int64]*domain.Booking

	nextSlotID    int64
	nextBookingID int64

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		slots:    make(map[int64]*domain.Slot),
		bookings: make(map[int64]*domain.Booking),
		now:      time.Now,
	}
}

// Slots репозиторий слотов поверх хранилища
func (s *Store) Slots() *SlotRepository {
	return &SlotRepository{store: s}
}

// Bookings журнал бронирований поверх хранилища
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Do выполняет fn атомарно: при ошибке все изменения откатываются
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, false, fn)
}

// DoSerializable то же, что Do: транзакции хранилища и так выполняются последовательно
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, false, fn)
}

// DoReadOnly выполняет fn на согласованном снимке данных
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, true, fn)
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	if readOnly {
		s.mu.RLock()
		defer s.mu.RUnlock()
	} else {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	st := &txState{readOnly: readOnly}
	if err := fn(context.WithValue(ctx, txKey{}, st)); err != nil {
		for i := len(st.undo) - 1; i >= 0; i-- {
			st.undo[i]()
		}
		return err
	}

	return nil
}

// read захватывает блокировку на чтение, если вызов не внутри транзакции
func (s *Store) read(ctx context.Context) func() {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// write захватывает блокировку на запись и возвращает функцию регистрации undo
func (s *Store) write(ctx context.Context) (onRollback func(func()), unlock func(), err error) {
	if st, ok := ctx.Value(txKey{}).(*txState); ok {
		if st.readOnly {
			return nil, nil, ErrReadOnlyTx
		}
		return func(f func()) { st.undo = append(st.undo, f) }, func() {}, nil
	}
	s.mu.Lock()
	return func(func()) {}, s.mu.Unlock, nil
}

// CorruptBookedCount выставляет booked_count в обход движка.
// Нужен только для проверки обнаружения расхождений
func (s *Store) CorruptBookedCount(slotID int64, bookedCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok := s.slots[slotID]; ok {
		slot.BookedCount = bookedCount
	}
}

func cloneSlot(s *domain.Slot) *domain.Slot {
	c := *s
	return &c
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	if b.CancelledAt != nil {
		at := *b.CancelledAt
		c.CancelledAt = &at
	}
	if b.CancelledBy != nil {
		by := *b.CancelledBy
		c.CancelledBy = &by
	}
	return &c
}
