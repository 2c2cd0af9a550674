package get_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange = "некорректный диапазон дат"
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

// Handle GET /api/v1/admin/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := handlers.ParseDate(query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /admin/calendar - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := handlers.ParseDate(query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /admin/calendar - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	days, err := h.service.AvailabilityForRange(r.Context(), from, to)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDateRange):
			h.logger.Warn("GET /admin/calendar - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /admin/calendar - Failed to get calendar: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := CalendarResponse{
		From: query.Get("from"),
		To:   query.Get("to"),
		Days: make([]handlers.DayAvailabilityResponse, 0, len(days)),
	}
	for _, day := range days {
		resp.Days = append(resp.Days, handlers.FromDayView(day))
	}

	h.logger.Info("GET /admin/calendar - %d days with slots", len(resp.Days))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
