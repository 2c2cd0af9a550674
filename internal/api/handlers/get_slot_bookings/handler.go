package get_slot_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgInvalidFlag   = "некорректное значение includeCancelled"
	msgSlotNotFound  = "слот не найден"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/slots/{slotId}/bookings?includeCancelled=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("GET /admin/slots/{id}/bookings - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	includeCancelled := false
	if raw := r.URL.Query().Get("includeCancelled"); raw != "" {
		includeCancelled, err = strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /admin/slots/{id}/bookings - Invalid includeCancelled: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFlag)
			return
		}
	}

	result, err := h.service.GetSlotBookings(r.Context(), slotID, includeCancelled)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotNotFound):
			h.logger.Warn("GET /admin/slots/{id}/bookings - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		default:
			h.logger.Error("GET /admin/slots/{id}/bookings - Failed to get bookings: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/slots/{id}/bookings - %d bookings for slot_id=%d", len(result.Bookings), slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
