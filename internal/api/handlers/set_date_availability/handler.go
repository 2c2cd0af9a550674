package set_date_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

// Handler выключает или включает все слоты даты.
// Одна реализация обслуживает оба маршрута, направление задаётся при создании
type Handler struct {
	service  SlotService
	disabled bool
	logger   Logger
}

func NewHandler(service SlotService, disabled bool, logger Logger) *Handler {
	return &Handler{
		service:  service,
		disabled: disabled,
		logger:   logger,
	}
}

// Handle POST /api/v1/admin/dates/{date}/disable | /enable
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	route := h.route()

	rawDate := mux.Vars(r)["date"]
	date, err := handlers.ParseDate(rawDate)
	if err != nil {
		h.logger.Warn("POST %s - Invalid date: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var result *models.DateAvailabilityResponse
	if h.disabled {
		result, err = h.service.DisableByDate(r.Context(), date)
	} else {
		result, err = h.service.EnableByDate(r.Context(), date)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST %s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("POST %s - Failed to update date: date=%s, error=%v", route, rawDate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST %s - date=%s, affected=%d", route, rawDate, result.Affected)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) route() string {
	if h.disabled {
		return "/admin/dates/{date}/disable"
	}
	return "/admin/dates/{date}/enable"
}
