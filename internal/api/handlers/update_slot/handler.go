package update_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNothingToUpdate    = "не указано ни одного поля для изменения"
	msgInvalidTimeRange   = "время начала должно быть раньше времени окончания"
	msgInvalidCapacity    = "вместимость должна быть от 1 до 100"
	msgSlotNotFound       = "слот не найден"
	msgSlotAlreadyExists  = "слот на это время уже существует"
	msgSlotBusy           = "слот занят другой операцией, повторите запрос"
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

// Handle PATCH /api/v1/admin/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("PATCH /admin/slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/slots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PATCH /admin/slots/{id} - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PATCH /admin/slots/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	if serviceReq.IsEmpty() {
		h.logger.Warn("PATCH /admin/slots/{id} - Nothing to update: slot_id=%d", slotID)
		handlers.RespondBadRequest(w, msgNothingToUpdate)
		return
	}

	slot, err := h.service.Edit(r.Context(), slotID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotNotFound):
			h.logger.Warn("PATCH /admin/slots/{id} - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, domain.ErrInvalidTimeRange):
			h.logger.Warn("PATCH /admin/slots/{id} - Invalid time range: slot_id=%d", slotID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, domain.ErrInvalidCapacity):
			h.logger.Warn("PATCH /admin/slots/{id} - Invalid capacity: slot_id=%d", slotID)
			handlers.RespondBadRequest(w, msgInvalidCapacity)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/slots/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, domain.ErrSlotAlreadyExists):
			h.logger.Warn("PATCH /admin/slots/{id} - Slot already exists: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotAlreadyExists)

		case errors.Is(err, domain.ErrSlotBusy):
			h.logger.Warn("PATCH /admin/slots/{id} - Slot busy: slot_id=%d", slotID)
			handlers.RespondServiceUnavailable(w, msgSlotBusy)

		default:
			h.logger.Error("PATCH /admin/slots/{id} - Failed to update slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/slots/{id} - Slot updated successfully: slot_id=%d", slotID)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
