package bulk_generate_slots

import (
	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
)

// TimeTemplateRequest окно времени, повторяемое каждый день диапазона
type TimeTemplateRequest struct {
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// BulkGenerateRequest HTTP request model
type BulkGenerateRequest struct {
	StartDate string                `json:"startDate" validate:"required"`
	EndDate   string                `json:"endDate" validate:"required"`
	Templates []TimeTemplateRequest `json:"templates" validate:"required,min=1,max=48,dive"`
	Capacity  int                   `json:"capacity" validate:"required,min=1,max=100"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *BulkGenerateRequest) ToServiceRequest() (*models.BulkGenerateRequest, error) {
	start, err := handlers.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	templates := make([]domain.TimeTemplate, 0, len(r.Templates))
	for _, t := range r.Templates {
		startTime, err := handlers.ParseTimeOfDay(t.StartTime)
		if err != nil {
			return nil, err
		}
		endTime, err := handlers.ParseTimeOfDay(t.EndTime)
		if err != nil {
			return nil, err
		}
		templates = append(templates, domain.TimeTemplate{StartTime: startTime, EndTime: endTime})
	}

	return &models.BulkGenerateRequest{
		StartDate: start,
		EndDate:   end,
		Templates: templates,
		Capacity:  r.Capacity,
	}, nil
}
