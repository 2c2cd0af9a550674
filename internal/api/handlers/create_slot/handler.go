package create_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimeRange   = "время начала должно быть раньше времени окончания"
	msgInvalidCapacity    = "вместимость должна быть от 1 до 100"
	msgSlotAlreadyExists  = "слот на это время уже существует"
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

// Handle POST /api/v1/admin/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /admin/slots - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /admin/slots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	slot, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTimeRange):
			h.logger.Warn("POST /admin/slots - Invalid time range: %s-%s", req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, domain.ErrInvalidCapacity):
			h.logger.Warn("POST /admin/slots - Invalid capacity: %d", req.Capacity)
			handlers.RespondBadRequest(w, msgInvalidCapacity)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /admin/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, domain.ErrSlotAlreadyExists):
			h.logger.Warn("POST /admin/slots - Slot already exists: date=%s, %s-%s", req.Date, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgSlotAlreadyExists)

		default:
			h.logger.Error("POST /admin/slots - Failed to create slot: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots - Slot created successfully: slot_id=%d, date=%s", slot.ID, slot.Date)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
