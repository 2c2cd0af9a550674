package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/slot"
)

const (
	operationBook   = "book"
	operationCancel = "cancel"
)

// Engine бронирование и отмена слотов.
//
// Book и Cancel по одному слоту выполняются строго по очереди: сначала берётся
// блокировка слота, затем открывается транзакция, в которой строка слота
// читается через SELECT ... FOR UPDATE. Операции над разными слотами идут параллельно.
type Engine struct {
	cfg          Config
	slots        SlotRepository
	bookings     BookingRepository
	txManager    TransactionManager
	locker       Locker
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewEngine создает движок бронирования
func NewEngine(
	cfg Config,
	slots SlotRepository,
	bookings BookingRepository,
	txManager TransactionManager,
	locker Locker,
	metrics Metrics,
	logger Logger,
) *Engine {
	if cfg.MinRosterSize <= 0 {
		cfg.MinRosterSize = domain.DefaultMinRosterSize
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Engine{
		cfg:          cfg,
		slots:        slots,
		bookings:     bookings,
		txManager:    txManager,
		locker:       locker,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (e *Engine) WithTimeProvider(tp TimeProvider) *Engine {
	e.timeProvider = tp
	return e
}

// Location часовой пояс, в котором движок сравнивает время начала слотов
func (e *Engine) Location() *time.Location {
	return e.cfg.Location
}

// Book бронирует место в слоте для команды.
// Проверки идут в фиксированном порядке и останавливаются на первой неудачной:
// слот существует и включён, не начался, состав достаточен, нет активной брони команды, есть места
func (e *Engine) Book(ctx context.Context, req BookRequest) (*BookResult, error) {
	e.logger.Info("Book: slot=%d, team=%d, roster=%d", req.SlotID, req.TeamID, req.RosterSize)

	// 1. Валидация входных данных
	if req.SlotID <= 0 || req.TeamID <= 0 {
		e.metrics.ObserveReservation(operationBook, outcome(domain.ErrInvalidInput))
		return nil, fmt.Errorf("%w: slot id and team id must be positive", domain.ErrInvalidInput)
	}

	// 2. Берём блокировку слота
	unlock, err := e.lockSlot(ctx, req.SlotID)
	if err != nil {
		e.logger.Warn("Book: slot=%d lock not acquired: %v", req.SlotID, err)
		e.metrics.ObserveReservation(operationBook, outcome(err))
		return nil, err
	}
	defer unlock()

	now := e.timeProvider.Now()

	// 3. Проверки и запись в одной транзакции
	var result *BookResult
	err = e.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := e.slots.GetByIDForUpdate(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return domain.ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if slot.Disabled {
			return domain.ErrSlotDisabled
		}

		started, err := slot.HasStarted(now, e.cfg.Location)
		if err != nil {
			return fmt.Errorf("%w: slot id=%d has invalid time: %v", ErrInternal, slot.ID, err)
		}
		if started {
			return domain.ErrSlotExpired
		}

		if req.RosterSize < e.cfg.MinRosterSize {
			return fmt.Errorf("%w: roster %d, minimum %d", domain.ErrInsufficientRoster, req.RosterSize, e.cfg.MinRosterSize)
		}

		booked, err := e.bookings.HasConfirmed(txCtx, req.SlotID, req.TeamID)
		if err != nil {
			return fmt.Errorf("%w: failed to check existing booking: %v", ErrInternal, err)
		}
		if booked {
			return domain.ErrAlreadyBooked
		}

		if slot.IsFull() {
			return domain.ErrSlotFull
		}

		updated, err := e.slots.IncrementBookedCount(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrCapacityExceeded) || errors.Is(err, slotRepo.ErrSlotNotFound) {
				// слот проверен под блокировкой, отказ счётчика означает запись в обход движка
				e.reportViolation("book", "slot=%d capacity=%d booked=%d: conditional increment rejected",
					slot.ID, slot.Capacity, slot.BookedCount)
				return fmt.Errorf("%w: increment rejected for slot id=%d", domain.ErrConsistencyViolation, slot.ID)
			}
			return fmt.Errorf("%w: failed to increment booked count: %v", ErrInternal, err)
		}

		created, err := e.bookings.Create(txCtx, &domain.Booking{
			SlotID:        req.SlotID,
			TeamID:        req.TeamID,
			TeamName:      req.TeamName,
			Status:        domain.StatusConfirmed,
			PaymentStatus: domain.PaymentPending,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateConfirmed) {
				return domain.ErrAlreadyBooked
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = &BookResult{Booking: created, Slot: updated.Availability()}
		return nil
	})

	e.metrics.ObserveReservation(operationBook, outcome(err))
	if err != nil {
		e.logResult("Book", err, "slot=%d, team=%d", req.SlotID, req.TeamID)
		return nil, err
	}

	e.logger.Info("Book: booking id=%d created, slot=%d remaining=%d",
		result.Booking.ID, req.SlotID, result.Slot.Remaining)

	return result, nil
}

// Cancel отменяет подтверждённое бронирование.
// Отменить может команда-владелец или администратор. Повторная отмена возвращает ErrBookingNotFound
func (e *Engine) Cancel(ctx context.Context, req CancelRequest) (*CancelResult, error) {
	e.logger.Info("Cancel: booking=%d, team=%d, admin=%t", req.BookingID, req.RequesterTeamID, req.IsAdmin)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		e.metrics.ObserveReservation(operationCancel, outcome(domain.ErrInvalidInput))
		return nil, fmt.Errorf("%w: booking id must be positive", domain.ErrInvalidInput)
	}

	// 2. Находим бронирование, чтобы узнать слот.
	// Команда и слот бронирования не меняются, поэтому владельца можно проверить до блокировки
	existing, err := e.bookings.GetByID(ctx, req.BookingID)
	if err == nil {
		err = e.checkCancellable(existing, req)
	} else if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		err = domain.ErrBookingNotFound
	} else {
		err = fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	if err != nil {
		e.metrics.ObserveReservation(operationCancel, outcome(err))
		e.logResult("Cancel", err, "booking=%d", req.BookingID)
		return nil, err
	}

	// 3. Берём блокировку слота
	unlock, err := e.lockSlot(ctx, existing.SlotID)
	if err != nil {
		e.logger.Warn("Cancel: slot=%d lock not acquired: %v", existing.SlotID, err)
		e.metrics.ObserveReservation(operationCancel, outcome(err))
		return nil, err
	}
	defer unlock()

	now := e.timeProvider.Now()
	cancelledBy := domain.CancelledByTeam
	if req.IsAdmin {
		cancelledBy = domain.CancelledByAdmin
	}

	// 4. Повторная проверка и отмена в одной транзакции
	var result *CancelResult
	err = e.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := e.bookings.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return domain.ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		if err := e.checkCancellable(booking, req); err != nil {
			return err
		}

		cancelled, err := e.bookings.Cancel(txCtx, booking.ID, cancelledBy, now)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrNotConfirmed) || errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return domain.ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		updated, err := e.slots.DecrementBookedCount(txCtx, booking.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrCounterUnderflow) || errors.Is(err, slotRepo.ErrSlotNotFound) {
				e.reportViolation("cancel", "slot=%d booking=%d: conditional decrement rejected",
					booking.SlotID, booking.ID)
				return fmt.Errorf("%w: decrement rejected for slot id=%d", domain.ErrConsistencyViolation, booking.SlotID)
			}
			return fmt.Errorf("%w: failed to decrement booked count: %v", ErrInternal, err)
		}

		result = &CancelResult{Booking: cancelled, Slot: updated.Availability()}
		return nil
	})

	e.metrics.ObserveReservation(operationCancel, outcome(err))
	if err != nil {
		e.logResult("Cancel", err, "booking=%d", req.BookingID)
		return nil, err
	}

	e.logger.Info("Cancel: booking id=%d cancelled by %s, slot=%d remaining=%d",
		req.BookingID, cancelledBy, result.Booking.SlotID, result.Slot.Remaining)

	return result, nil
}

func (e *Engine) checkCancellable(booking *domain.Booking, req CancelRequest) error {
	if !booking.IsConfirmed() {
		return domain.ErrBookingNotFound
	}
	if !req.IsAdmin && !booking.IsOwnedBy(req.RequesterTeamID) {
		return domain.ErrNotAuthorized
	}
	return nil
}

// lockSlot ждёт блокировку слота не дольше LockTimeout и не дольше дедлайна ctx
func (e *Engine) lockSlot(ctx context.Context, slotID int64) (lock.Unlock, error) {
	lockCtx := ctx
	if e.cfg.LockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, e.cfg.LockTimeout)
		defer cancel()
	}

	unlock, err := e.locker.Lock(lockCtx, lock.SlotKey(slotID))
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return nil, fmt.Errorf("%w: slot id=%d", domain.ErrSlotBusy, slotID)
		}
		return nil, fmt.Errorf("%w: failed to lock slot id=%d: %v", ErrInternal, slotID, err)
	}
	return unlock, nil
}

func (e *Engine) reportViolation(source, format string, v ...interface{}) {
	e.metrics.IncConsistencyViolation(source)
	e.logger.Error("CONSISTENCY VIOLATION (%s): "+format, append([]interface{}{source}, v...)...)
}

// logResult пишет отказ по бизнес-правилу как warn, остальные ошибки как error
func (e *Engine) logResult(op string, err error, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if isRejection(err) {
		e.logger.Warn("%s: %s rejected: %v", op, msg, err)
		return
	}
	e.logger.Error("%s: %s failed: %v", op, msg, err)
}

var rejections = []error{
	domain.ErrSlotNotFound,
	domain.ErrSlotDisabled,
	domain.ErrSlotExpired,
	domain.ErrInsufficientRoster,
	domain.ErrAlreadyBooked,
	domain.ErrSlotFull,
	domain.ErrSlotBusy,
	domain.ErrBookingNotFound,
	domain.ErrNotAuthorized,
	domain.ErrInvalidInput,
}

func isRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// outcome метка исхода операции для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrSlotNotFound):
		return "slot_not_found"
	case errors.Is(err, domain.ErrSlotDisabled):
		return "slot_disabled"
	case errors.Is(err, domain.ErrSlotExpired):
		return "slot_expired"
	case errors.Is(err, domain.ErrInsufficientRoster):
		return "insufficient_roster"
	case errors.Is(err, domain.ErrAlreadyBooked):
		return "already_booked"
	case errors.Is(err, domain.ErrSlotFull):
		return "slot_full"
	case errors.Is(err, domain.ErrSlotBusy):
		return "slot_busy"
	case errors.Is(err, domain.ErrBookingNotFound):
		return "booking_not_found"
	case errors.Is(err, domain.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrConsistencyViolation):
		return "consistency_violation"
	default:
		return "error"
	}
}
