package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/readmodel"
)

type AvailabilityService interface {
	AvailabilityForRange(ctx context.Context, from, to time.Time) ([]readmodel.DayView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
