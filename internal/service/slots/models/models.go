package models

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

// Request модели

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int
}

// BulkGenerateRequest генерация слотов по шаблонам на каждый день диапазона
type BulkGenerateRequest struct {
	StartDate time.Time
	EndDate   time.Time // включительно
	Templates []domain.TimeTemplate
	Capacity  int
}

// EditSlotRequest частичное изменение слота. nil - поле не меняется
type EditSlotRequest struct {
	Date      *time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Capacity  *int
	Disabled  *bool
}

// IsEmpty true, если не задано ни одного поля
func (r *EditSlotRequest) IsEmpty() bool {
	return r.Date == nil && r.StartTime == nil && r.EndTime == nil && r.Capacity == nil && r.Disabled == nil
}

// Response модели

// SlotResponse слот с производными полями
type SlotResponse struct {
	ID          int64            `json:"id"`
	Date        string           `json:"date"`
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	Capacity    int              `json:"capacity"`
	BookedCount int              `json:"bookedCount"`
	Remaining   int              `json:"remaining"`
	IsFull      bool             `json:"isFull"`
	Disabled    bool             `json:"disabled"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// BulkGenerateResponse результат массовой генерации
type BulkGenerateResponse struct {
	Created int             `json:"created"`
	Skipped int             `json:"skipped"`
	Slots   []*SlotResponse `json:"slots"`
}

// DateAvailabilityResponse результат включения/выключения даты
type DateAvailabilityResponse struct {
	Date     string `json:"date"`
	Disabled bool   `json:"disabled"`
	Affected int64  `json:"affected"`
}

// Конвертеры

// FromDomainSlot конвертирует доменный слот в response
func FromDomainSlot(slot *domain.Slot) *SlotResponse {
	if slot == nil {
		return nil
	}
	return &SlotResponse{
		ID:          slot.ID,
		Date:        slot.Date.Format(domain.DateFormat),
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		Capacity:    slot.Capacity,
		BookedCount: slot.BookedCount,
		Remaining:   slot.Remaining(),
		IsFull:      slot.IsFull(),
		Disabled:    slot.Disabled,
		CreatedAt:   slot.CreatedAt,
		UpdatedAt:   slot.UpdatedAt,
	}
}
