package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/lock"
	slotRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-GroundBooking/internal/service/slots/models"
)

// Service администрирование слотов.
// Счётчик booked_count здесь никогда не меняется, им владеет движок бронирования
type Service struct {
	slotRepo    SlotRepository
	txManager   TransactionManager
	locker      Locker
	lockTimeout time.Duration
	logger      Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	txManager TransactionManager,
	locker Locker,
	lockTimeout time.Duration,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:    slotRepo,
		txManager:   txManager,
		locker:      locker,
		lockTimeout: lockTimeout,
		logger:      logger,
	}
}

// Create создает один слот
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	s.logger.Info("Create: date=%s, time=%s-%s, capacity=%d",
		req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.Capacity)

	created, err := s.slotRepo.Create(ctx, &domain.Slot{
		Date:      domain.DateOnly(req.Date),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
	})
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotAlreadyExists) {
			s.logger.Warn("Create: slot %s %s-%s already exists",
				req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)
			return nil, domain.ErrSlotAlreadyExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: slot id=%d created", created.ID)
	return models.FromDomainSlot(created), nil
}

// BulkGenerate создает по слоту на каждую пару (дата, шаблон) в диапазоне.
// Уже существующие слоты с тем же (дата, начало, конец) пропускаются, поэтому
// повторный запуск на пересекающемся диапазоне не создаёт дубликатов
func (s *Service) BulkGenerate(ctx context.Context, req *models.BulkGenerateRequest) (*models.BulkGenerateResponse, error) {
	if err := validateBulkRequest(req); err != nil {
		s.logger.Warn("BulkGenerate: validation failed: %v", err)
		return nil, err
	}

	from, to := domain.DateOnly(req.StartDate), domain.DateOnly(req.EndDate)
	s.logger.Info("BulkGenerate: %s..%s, templates=%d, capacity=%d",
		from.Format(domain.DateFormat), to.Format(domain.DateFormat), len(req.Templates), req.Capacity)

	resp := &models.BulkGenerateResponse{Slots: make([]*models.SlotResponse, 0)}
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
			for _, tpl := range req.Templates {
				created, ok, err := s.slotRepo.CreateIfNotExists(txCtx, &domain.Slot{
					Date:      date,
					StartTime: tpl.StartTime,
					EndTime:   tpl.EndTime,
					Capacity:  req.Capacity,
				})
				if err != nil {
					return fmt.Errorf("create slot %s %s-%s: %w", date.Format(domain.DateFormat), tpl.StartTime, tpl.EndTime, err)
				}
				if !ok {
					resp.Skipped++
					continue
				}
				resp.Created++
				resp.Slots = append(resp.Slots, models.FromDomainSlot(created))
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("BulkGenerate: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: BulkGenerate - %v", ErrInternal, err)
	}

	s.logger.Info("BulkGenerate: created=%d, skipped=%d", resp.Created, resp.Skipped)
	return resp, nil
}

// DisableByDate выключает все слоты даты. Подтверждённые бронирования остаются в силе
func (s *Service) DisableByDate(ctx context.Context, date time.Time) (*models.DateAvailabilityResponse, error) {
	return s.setDateDisabled(ctx, date, true)
}

// EnableByDate снова открывает слоты даты для бронирования
func (s *Service) EnableByDate(ctx context.Context, date time.Time) (*models.DateAvailabilityResponse, error) {
	return s.setDateDisabled(ctx, date, false)
}

func (s *Service) setDateDisabled(ctx context.Context, date time.Time, disabled bool) (*models.DateAvailabilityResponse, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	day := domain.DateOnly(date)

	s.logger.Info("SetDateDisabled: date=%s, disabled=%t", day.Format(domain.DateFormat), disabled)

	// Строки слотов обновляются через UPDATE и ждут FOR UPDATE блокировок идущих бронирований,
	// поэтому бронирование либо завершится до выключения, либо увидит disabled
	affected, err := s.slotRepo.SetDisabledByDate(ctx, day, disabled)
	if err != nil {
		s.logger.Error("SetDateDisabled: repository error for date=%s: %v", day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: SetDateDisabled - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetDateDisabled: %d slots updated for date=%s", affected, day.Format(domain.DateFormat))
	return &models.DateAvailabilityResponse{
		Date:     day.Format(domain.DateFormat),
		Disabled: disabled,
		Affected: affected,
	}, nil
}

// Delete удаляет слот без подтверждённых бронирований
func (s *Service) Delete(ctx context.Context, slotID int64) error {
	s.logger.Info("Delete: slot id=%d", slotID)

	unlock, err := s.lockSlot(ctx, slotID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("Delete: slot id=%d not found", slotID)
			return domain.ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrSlotHasBookings):
			s.logger.Warn("Delete: slot id=%d has bookings", slotID)
			return domain.ErrSlotHasBookings
		default:
			s.logger.Error("Delete: repository error for slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Delete: slot id=%d deleted", slotID)
	return nil
}

// Edit меняет дату, время, вместимость или флаг disabled.
// Вместимость можно уменьшить ниже числа бронирований: слот станет заполненным,
// существующие бронирования не отменяются
func (s *Service) Edit(ctx context.Context, slotID int64, req *models.EditSlotRequest) (*models.SlotResponse, error) {
	if req == nil || req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	s.logger.Info("Edit: slot id=%d", slotID)

	unlock, err := s.lockSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated *domain.Slot
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetByIDForUpdate(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return domain.ErrSlotNotFound
			}
			return fmt.Errorf("%w: Edit - get slot: %v", ErrInternal, err)
		}

		applyEdit(slot, req)

		if err := domain.ValidateTimeRange(slot.StartTime, slot.EndTime); err != nil {
			return fmt.Errorf("%w: %s-%s", err, slot.StartTime, slot.EndTime)
		}
		if err := validateCapacity(slot.Capacity); err != nil {
			return err
		}

		updated, err = s.slotRepo.Update(txCtx, slot)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotAlreadyExists) {
				return domain.ErrSlotAlreadyExists
			}
			return fmt.Errorf("%w: Edit - update slot: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Edit: slot id=%d: %v", slotID, err)
		} else {
			s.logger.Warn("Edit: slot id=%d rejected: %v", slotID, err)
		}
		return nil, err
	}

	if updated.BookedCount > updated.Capacity {
		s.logger.Warn("Edit: slot id=%d capacity %d is below booked count %d, slot is full",
			slotID, updated.Capacity, updated.BookedCount)
	}

	s.logger.Info("Edit: slot id=%d updated", slotID)
	return models.FromDomainSlot(updated), nil
}

// GetByID возвращает слот
func (s *Service) GetByID(ctx context.Context, slotID int64) (*models.SlotResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, domain.ErrSlotNotFound
		}
		s.logger.Error("GetByID: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainSlot(slot), nil
}

func applyEdit(slot *domain.Slot, req *models.EditSlotRequest) {
	if req.Date != nil {
		slot.Date = domain.DateOnly(*req.Date)
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.Capacity != nil {
		slot.Capacity = *req.Capacity
	}
	if req.Disabled != nil {
		slot.Disabled = *req.Disabled
	}
}

func (s *Service) lockSlot(ctx context.Context, slotID int64) (lock.Unlock, error) {
	lockCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	unlock, err := s.locker.Lock(lockCtx, lock.SlotKey(slotID))
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			s.logger.Warn("slot id=%d is busy: %v", slotID, err)
			return nil, fmt.Errorf("%w: slot id=%d", domain.ErrSlotBusy, slotID)
		}
		s.logger.Error("failed to lock slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: lock slot: %v", ErrInternal, err)
	}
	return unlock, nil
}
