package delete_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	msgInvalidSlotID   = "некорректный ID слота"
	msgSlotNotFound    = "слот не найден"
	msgSlotHasBookings = "у слота есть подтверждённые бронирования"
	msgSlotBusy        = "слот занят другой операцией, повторите запрос"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("DELETE /admin/slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.Delete(r.Context(), slotID); err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotNotFound):
			h.logger.Warn("DELETE /admin/slots/{id} - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, domain.ErrSlotHasBookings):
			h.logger.Warn("DELETE /admin/slots/{id} - Slot has bookings: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotHasBookings)

		case errors.Is(err, domain.ErrSlotBusy):
			h.logger.Warn("DELETE /admin/slots/{id} - Slot busy: slot_id=%d", slotID)
			handlers.RespondServiceUnavailable(w, msgSlotBusy)

		default:
			h.logger.Error("DELETE /admin/slots/{id} - Failed to delete slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/slots/{id} - Slot deleted successfully: slot_id=%d", slotID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
