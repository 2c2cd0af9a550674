package create_slot

import (
	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
)

// CreateSlotRequest HTTP request model
type CreateSlotRequest struct {
	Date      string `json:"date" validate:"required"`      // "2025-10-15"
	StartTime string `json:"startTime" validate:"required"` // "18:00"
	EndTime   string `json:"endTime" validate:"required"`   // "19:30"
	Capacity  int    `json:"capacity" validate:"required,min=1,max=100"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSlotRequest) ToServiceRequest() (*models.CreateSlotRequest, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	start, err := handlers.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateSlotRequest{
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Capacity:  r.Capacity,
	}, nil
}
