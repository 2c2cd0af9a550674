package slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
)

func validateCapacity(capacity int) error {
	if capacity < domain.MinSlotCapacity || capacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d, got %d",
			domain.ErrInvalidCapacity, domain.MinSlotCapacity, domain.MaxSlotCapacity, capacity)
	}
	return nil
}

func validateCreateRequest(req *models.CreateSlotRequest) error {
	if req == nil || req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateTimeRange(req.StartTime, req.EndTime); err != nil {
		return fmt.Errorf("%w: %s-%s", err, req.StartTime, req.EndTime)
	}
	return validateCapacity(req.Capacity)
}

func validateBulkRequest(req *models.BulkGenerateRequest) error {
	if req == nil || req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidInput)
	}

	from, to := domain.DateOnly(req.StartDate), domain.DateOnly(req.EndDate)
	if to.Before(from) {
		return fmt.Errorf("%w: end date before start date", domain.ErrInvalidDateRange)
	}
	if days := daysInRange(from, to); days > domain.MaxBulkRangeDays {
		return fmt.Errorf("%w: range of %d days exceeds %d", domain.ErrInvalidDateRange, days, domain.MaxBulkRangeDays)
	}

	if len(req.Templates) == 0 || len(req.Templates) > domain.MaxTemplatesPerBulk {
		return fmt.Errorf("%w: between 1 and %d time templates required", domain.ErrInvalidInput, domain.MaxTemplatesPerBulk)
	}
	for _, tpl := range req.Templates {
		if err := tpl.Validate(); err != nil {
			return fmt.Errorf("%w: template %s-%s", err, tpl.StartTime, tpl.EndTime)
		}
	}

	return validateCapacity(req.Capacity)
}

// daysInRange количество дней в [from, to] включительно
func daysInRange(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}
