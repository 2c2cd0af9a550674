package bulk_generate_slots

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
)

type SlotService interface {
	BulkGenerate(ctx context.Context, req *models.BulkGenerateRequest) (*models.BulkGenerateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
