package book_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	teamClient "github.com/m04kA/SMC-GroundBooking/internal/integrations/teamservice"
	"github.com/m04kA/SMC-GroundBooking/internal/service/reservation"
)

// UseCase use case бронирования слота от имени команды капитана
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

// Execute выполняет use case бронирования.
// Ошибки движка возвращаются без изменений, чтобы handler мог сопоставить их с HTTP-кодами
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: user=%d, slot=%d", req.UserID, req.SlotID)

	// 1. Валидация входных данных
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", domain.ErrInvalidInput)
	}
	if req.SlotID <= 0 {
		return nil, fmt.Errorf("%w: slotID must be positive", domain.ErrInvalidInput)
	}

	// 2. Получаем команду капитана и текущий размер состава
	team, err := uc.teamClient.GetCaptainTeam(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, teamClient.ErrTeamNotFound) {
			uc.logger.Warn("BookSlot: user=%d is not a captain of any team", req.UserID)
			return nil, domain.ErrTeamNotFound
		}
		uc.logger.Error("BookSlot: failed to get team for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get team: %v", ErrInternal, err)
	}

	// 3. Бронируем через движок
	result, err := uc.engine.Book(ctx, reservation.BookRequest{
		SlotID:     req.SlotID,
		TeamID:     team.ID,
		TeamName:   team.Name,
		RosterSize: team.RosterSize,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookSlot: booking id=%d created for team=%d", result.Booking.ID, team.ID)

	// 4. Формируем ответ
	return &Response{
		ID:            result.Booking.ID,
		SlotID:        result.Booking.SlotID,
		TeamID:        result.Booking.TeamID,
		TeamName:      result.Booking.TeamName,
		Status:        string(result.Booking.Status),
		PaymentStatus: string(result.Booking.PaymentStatus),
		Capacity:      result.Slot.Capacity,
		BookedCount:   result.Slot.BookedCount,
		Remaining:     result.Slot.Remaining,
		IsFull:        result.Slot.IsFull,
		CreatedAt:     result.Booking.CreatedAt,
	}, nil
}
