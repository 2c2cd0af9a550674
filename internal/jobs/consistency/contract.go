package consistency

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// SlotRepository источник расхождений счётчика слотов с бронированиями
type SlotRepository interface {
	FindCountMismatches(ctx context.Context) ([]domain.CountMismatch, error)
}

// Metrics счётчик нарушений согласованности
type Metrics interface {
	IncConsistencyViolation(source string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
