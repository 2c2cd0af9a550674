package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /slots/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	day, err := h.service.AvailabilityForDate(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /slots/availability - Failed to get availability: date=%s, error=%v",
			r.URL.Query().Get("date"), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /slots/availability - %d slots for date=%s", len(day.Slots), r.URL.Query().Get("date"))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDayView(*day))
}
