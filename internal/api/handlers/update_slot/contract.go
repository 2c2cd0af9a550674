package update_slot

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
)

type SlotService interface {
	Edit(ctx context.Context, slotID int64, req *models.EditSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
