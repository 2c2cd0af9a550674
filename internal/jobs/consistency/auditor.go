package consistency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	metricSource = "audit"
	runTimeout   = time.Minute
)

// Auditor периодически сверяет booked_count слотов с числом подтверждённых бронирований.
// Расхождения только логируются и считаются в метриках, данные не исправляются
type Auditor struct {
	slots    SlotRepository
	metrics  Metrics
	logger   Logger
	schedule string

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewAuditor(slots SlotRepository, metrics Metrics, schedule string, logger Logger) *Auditor {
	return &Auditor{
		slots:    slots,
		metrics:  metrics,
		logger:   logger,
		schedule: schedule,
	}
}

// Start регистрирует задачу в планировщике и запускает его
func (a *Auditor) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(a.schedule, a.run); err != nil {
		return fmt.Errorf("consistency audit: invalid schedule %q: %w", a.schedule, err)
	}
	c.Start()

	a.cron = c
	a.running = true
	a.logger.Info("Consistency audit scheduled: %s", a.schedule)
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущей проверки
func (a *Auditor) Stop(ctx context.Context) {
	a.mu.Lock()
	c := a.cron
	a.cron = nil
	a.running = false
	a.mu.Unlock()

	if c == nil {
		return
	}

	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		a.logger.Error("Consistency audit: stop interrupted: %v", ctx.Err())
	}
}

// RunOnce выполняет одну проверку и возвращает найденные расхождения
func (a *Auditor) RunOnce(ctx context.Context) (int, error) {
	mismatches, err := a.slots.FindCountMismatches(ctx)
	if err != nil {
		return 0, fmt.Errorf("consistency audit: %w", err)
	}

	for _, m := range mismatches {
		a.logger.Error("Consistency violation: slot id=%d booked_count=%d confirmed_bookings=%d",
			m.SlotID, m.BookedCount, m.ConfirmedCount)
		if a.metrics != nil {
			a.metrics.IncConsistencyViolation(metricSource)
		}
	}

	return len(mismatches), nil
}

func (a *Auditor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	found, err := a.RunOnce(ctx)
	if err != nil {
		a.logger.Error("Consistency audit failed: %v", err)
		return
	}
	a.logger.Info("Consistency audit finished: %d mismatches", found)
}
