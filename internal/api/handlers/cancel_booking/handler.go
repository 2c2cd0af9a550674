package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	cancelBooking "github.com/m04kA/SMC-GroundBooking/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено или уже отменено"
	msgForbidden        = "доступ запрещен"
	msgSlotBusy         = "слот занят другой операцией, повторите запрос"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetRole(r.Context())

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		UserID:    userID,
		Role:      role,
		BookingID: bookingID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrNotAuthorized):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrSlotBusy):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Slot busy: booking_id=%d", bookingID)
			handlers.RespondServiceUnavailable(w, msgSlotBusy)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, user_id=%d, by=%s",
		bookingID, userID, result.CancelledBy)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
