package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/readmodel"
)

// AvailabilityForDate возвращает все слоты даты, включая выключенные, с командами-участниками.
// Слоты и бронирования читаются из одного снимка, поэтому BookedCount и список команд согласованы
func (e *Engine) AvailabilityForDate(ctx context.Context, date time.Time) (*readmodel.DayView, error) {
	day := domain.DateOnly(date)

	views, err := e.snapshot(ctx, day, day)
	if err != nil {
		return nil, err
	}

	return &readmodel.DayView{Date: day, Slots: views}, nil
}

// AvailabilityForRange календарь по дням в диапазоне [from, to]. Дни без слотов не возвращаются
func (e *Engine) AvailabilityForRange(ctx context.Context, from, to time.Time) ([]readmodel.DayView, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrInvalidDateRange)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > domain.MaxCalendarRangeDays {
		return nil, fmt.Errorf("%w: range of %d days exceeds %d", domain.ErrInvalidDateRange, days, domain.MaxCalendarRangeDays)
	}

	views, err := e.snapshot(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return readmodel.GroupByDate(views), nil
}

func (e *Engine) snapshot(ctx context.Context, from, to time.Time) ([]readmodel.SlotView, error) {
	now := e.timeProvider.Now()

	var (
		slots    []*domain.Slot
		bookings []*domain.Booking
	)
	err := e.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		slots, err = e.slots.ListByDateRange(txCtx, from, to)
		if err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}
		if len(slots) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(slots))
		for _, s := range slots {
			ids = append(ids, s.ID)
		}
		bookings, err = e.bookings.ListConfirmedBySlotIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}
		return nil
	})
	if err != nil {
		e.logger.Error("Availability: %s..%s failed: %v",
			from.Format(domain.DateFormat), to.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	views := readmodel.Project(slots, bookings, now, e.cfg.Location)

	// расхождение не исправляется здесь, только фиксируется
	for _, v := range readmodel.Inconsistent(views) {
		e.reportViolation("availability", "slot=%d booked_count=%d confirmed=%d",
			v.ID, v.BookedCount, len(v.BookedTeams))
	}

	return views, nil
}
