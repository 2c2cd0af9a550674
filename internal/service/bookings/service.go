package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/slot"
	teamClient "github.com/m04kA/SMC-GroundBooking/internal/integrations/teamservice"
	"github.com/m04kA/SMC-GroundBooking/internal/service/bookings/models"
)

// Service запросы по бронированиям и статус оплаты.
// Создание и отмена идут только через движок бронирования
type Service struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	teamClient  TeamServiceClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	teamClient TeamServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		teamClient:  teamClient,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - капитан видит только бронирования своей команды,
// администратор видит любые
func (s *Service) GetByID(ctx context.Context, id int64, caller models.Caller) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, caller.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if !caller.IsAdmin {
		team, err := s.resolveTeam(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		if !booking.IsOwnedBy(team.ID) {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", caller.UserID, id)
			return nil, domain.ErrNotAuthorized
		}
	}

	slots, err := s.loadSlots(ctx, []*domain.Booking{booking})
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, slots[booking.SlotID]), nil
}

// GetTeamBookings получает историю бронирований команды капитана
// Опционально фильтрует по статусу
func (s *Service) GetTeamBookings(ctx context.Context, req *models.GetTeamBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTeamBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetTeamBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, err
		}
		domainStatus = &status
	}

	team, err := s.resolveTeam(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByTeam(ctx, team.ID, domainStatus)
	if err != nil {
		s.logger.Error("GetTeamBookings: repository error for team=%d: %v", team.ID, err)
		return nil, fmt.Errorf("%w: GetTeamBookings - repository error: %v", ErrInternal, err)
	}

	slots, err := s.loadSlots(ctx, bookings)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetTeamBookings: successfully fetched %d bookings for team=%d", len(bookings), team.ID)
	return models.FromDomainBookingList(bookings, slots), nil
}

// GetSlotBookings бронирования слота для администратора
func (s *Service) GetSlotBookings(ctx context.Context, slotID int64, includeCancelled bool) (*models.BookingListResponse, error) {
	s.logger.Info("GetSlotBookings: slot=%d, includeCancelled=%t", slotID, includeCancelled)

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("GetSlotBookings: slot id=%d not found", slotID)
			return nil, domain.ErrSlotNotFound
		}
		s.logger.Error("GetSlotBookings: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: GetSlotBookings - repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.ListBySlot(ctx, slotID, includeCancelled)
	if err != nil {
		s.logger.Error("GetSlotBookings: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: GetSlotBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings, map[int64]*domain.Slot{slot.ID: slot}), nil
}

// UpdatePaymentStatus меняет статус оплаты. Доступно только администратору.
// На бронирование и вместимость слота статус оплаты не влияет
func (s *Service) UpdatePaymentStatus(ctx context.Context, bookingID int64, req *models.UpdatePaymentStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdatePaymentStatus: booking id=%d to %s", bookingID, req.PaymentStatus)

	status, err := domain.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("UpdatePaymentStatus: invalid status=%s for booking id=%d", req.PaymentStatus, bookingID)
		return nil, err
	}

	updated, err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, status)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdatePaymentStatus: booking id=%d not found", bookingID)
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	slots, err := s.loadSlots(ctx, []*domain.Booking{updated})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdatePaymentStatus: booking id=%d now %s", bookingID, status)
	return models.FromDomainBooking(updated, slots[updated.SlotID]), nil
}

// Вспомогательные методы

// resolveTeam находит команду капитана через TeamService
func (s *Service) resolveTeam(ctx context.Context, userID int64) (*domain.Team, error) {
	team, err := s.teamClient.GetCaptainTeam(ctx, userID)
	if err != nil {
		if errors.Is(err, teamClient.ErrTeamNotFound) {
			s.logger.Warn("resolveTeam: user=%d is not a captain", userID)
			return nil, domain.ErrTeamNotFound
		}
		s.logger.Error("resolveTeam: failed to get team for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: resolveTeam - team service error: %v", ErrInternal, err)
	}
	return team, nil
}

// loadSlots подгружает слоты бронирований. Удалённые слоты пропускаются
func (s *Service) loadSlots(ctx context.Context, bookings []*domain.Booking) (map[int64]*domain.Slot, error) {
	slots := make(map[int64]*domain.Slot)
	for _, b := range bookings {
		if _, seen := slots[b.SlotID]; seen {
			continue
		}
		slot, err := s.slotRepo.GetByID(ctx, b.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				slots[b.SlotID] = nil
				continue
			}
			s.logger.Error("loadSlots: repository error for slot id=%d: %v", b.SlotID, err)
			return nil, fmt.Errorf("%w: loadSlots - repository error: %v", ErrInternal, err)
		}
		slots[b.SlotID] = slot
	}
	return slots, nil
}
