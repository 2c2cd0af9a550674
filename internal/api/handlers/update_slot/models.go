package update_slot

import (
	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
)

// UpdateSlotRequest HTTP request model. Отсутствующие поля не меняются
type UpdateSlotRequest struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Capacity  *int    `json:"capacity,omitempty" validate:"omitempty,min=1,max=100"`
	Disabled  *bool   `json:"disabled,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSlotRequest) ToServiceRequest() (*models.EditSlotRequest, error) {
	req := &models.EditSlotRequest{
		Capacity: r.Capacity,
		Disabled: r.Disabled,
	}

	if r.Date != nil {
		date, err := handlers.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}
	if r.StartTime != nil {
		start, err := handlers.ParseTimeOfDay(*r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &start
	}
	if r.EndTime != nil {
		end, err := handlers.ParseTimeOfDay(*r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &end
	}

	return req, nil
}
