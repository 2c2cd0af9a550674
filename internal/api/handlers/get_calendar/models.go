package get_calendar

import "github.com/m04kA/SMC-GroundBooking/internal/api/handlers"

// CalendarResponse дни диапазона, в которых есть слоты
type CalendarResponse struct {
	From string                             `json:"from"`
	To   string                             `json:"to"`
	Days []handlers.DayAvailabilityResponse `json:"days"`
}
