package bulk_generate_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimeRange   = "в шаблоне время начала должно быть раньше времени окончания"
	msgInvalidCapacity    = "вместимость должна быть от 1 до 100"
	msgInvalidDateRange   = "некорректный диапазон дат"
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

// Handle POST /api/v1/admin/slots/bulk
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BulkGenerateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/slots/bulk - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /admin/slots/bulk - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /admin/slots/bulk - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.BulkGenerate(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTimeRange):
			h.logger.Warn("POST /admin/slots/bulk - Invalid template: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, domain.ErrInvalidCapacity):
			h.logger.Warn("POST /admin/slots/bulk - Invalid capacity: %d", req.Capacity)
			handlers.RespondBadRequest(w, msgInvalidCapacity)

		case errors.Is(err, domain.ErrInvalidDateRange):
			h.logger.Warn("POST /admin/slots/bulk - Invalid date range: %s..%s", req.StartDate, req.EndDate)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /admin/slots/bulk - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /admin/slots/bulk - Failed to generate slots: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots/bulk - Generated: created=%d, skipped=%d", result.Created, result.Skipped)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
