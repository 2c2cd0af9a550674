package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTeamNotFound       = "у пользователя нет команды"
	msgSlotNotFound       = "слот не найден"
	msgSlotDisabled       = "слот отключён администратором"
	msgSlotExpired        = "слот уже начался"
	msgInsufficientRoster = "в составе команды недостаточно игроков"
	msgAlreadyBooked      = "команда уже забронировала этот слот"
	msgSlotFull           = "в слоте не осталось мест"
	msgSlotBusy           = "слот занят другой операцией, повторите запрос"
	msgConsistencyProblem = "состояние слота не согласовано, обратитесь к администратору"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, domain.ErrTeamNotFound):
			h.logger.Warn("POST /bookings - Team not found: user_id=%d", userID)
			handlers.RespondForbidden(w, msgTeamNotFound)

		case errors.Is(err, domain.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, domain.ErrSlotDisabled):
			h.logger.Warn("POST /bookings - Slot disabled: slot_id=%d", req.SlotID)
			handlers.RespondUnprocessable(w, msgSlotDisabled)

		case errors.Is(err, domain.ErrSlotExpired):
			h.logger.Warn("POST /bookings - Slot expired: slot_id=%d", req.SlotID)
			handlers.RespondUnprocessable(w, msgSlotExpired)

		case errors.Is(err, domain.ErrInsufficientRoster):
			h.logger.Warn("POST /bookings - Insufficient roster: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondUnprocessable(w, msgInsufficientRoster)

		case errors.Is(err, domain.ErrAlreadyBooked):
			h.logger.Warn("POST /bookings - Already booked: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondConflict(w, msgAlreadyBooked)

		case errors.Is(err, domain.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, domain.ErrSlotBusy):
			h.logger.Warn("POST /bookings - Slot busy: slot_id=%d", req.SlotID)
			handlers.RespondServiceUnavailable(w, msgSlotBusy)

		case errors.Is(err, domain.ErrConsistencyViolation):
			h.logger.Error("POST /bookings - Consistency violation: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgConsistencyProblem)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, slot_id=%d, error=%v",
				userID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, team_id=%d, slot_id=%d",
		result.ID, result.TeamID, result.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
