package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	teamClient "github.com/m04kA/SMC-GroundBooking/internal/integrations/teamservice"
	"github.com/m04kA/SMC-GroundBooking/internal/service/reservation"
	"github.com/m04kA/SMC-GroundBooking/pkg/ptr"
)

// UseCase use case отмены бронирования капитаном или администратором
type UseCase struct {
	engine     Engine
	teamClient TeamServiceClient
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(engine Engine, teamClient TeamServiceClient, logger Logger) *UseCase {
	return &UseCase{
		engine:     engine,
		teamClient: teamClient,
		logger:     logger,
	}
}

// Execute выполняет отмену. Администратору команда не нужна
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: user=%d, role=%s, booking=%d", req.UserID, req.Role, req.BookingID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", domain.ErrInvalidInput)
	}

	cancelReq := reservation.CancelRequest{
		BookingID: req.BookingID,
		IsAdmin:   req.Role == domain.RoleAdmin,
	}

	// 2. Для капитана определяем его команду
	if !cancelReq.IsAdmin {
		team, err := uc.teamClient.GetCaptainTeam(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, teamClient.ErrTeamNotFound) {
				uc.logger.Warn("CancelBooking: user=%d is not a captain of any team", req.UserID)
				return nil, domain.ErrNotAuthorized
			}
			uc.logger.Error("CancelBooking: failed to get team for user=%d: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: failed to get team: %v", ErrInternal, err)
		}
		cancelReq.RequesterTeamID = team.ID
	}

	// 3. Отменяем через движок
	result, err := uc.engine.Cancel(ctx, cancelReq)
	if err != nil {
		return nil, err
	}

	// 4. Формируем ответ
	b := result.Booking
	return &Response{
		ID:          b.ID,
		SlotID:      b.SlotID,
		TeamID:      b.TeamID,
		Status:      string(b.Status),
		CancelledBy: string(ptr.Value(b.CancelledBy)),
		CancelledAt: ptr.Value(b.CancelledAt),
		Remaining:   result.Slot.Remaining,
		IsFull:      result.Slot.IsFull,
	}, nil
}
