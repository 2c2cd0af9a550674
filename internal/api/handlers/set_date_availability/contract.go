package set_date_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
)

type SlotService interface {
	DisableByDate(ctx context.Context, date time.Time) (*models.DateAvailabilityResponse, error)
	EnableByDate(ctx context.Context, date time.Time) (*models.DateAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
