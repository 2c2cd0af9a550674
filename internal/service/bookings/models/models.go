package models

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// Request модели

// Caller вызывающий пользователь. Команду капитана сервис определяет сам
type Caller struct {
	UserID  int64
	IsAdmin bool
}

// GetTeamBookingsRequest запрос истории бронирований команды капитана
type GetTeamBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// UpdatePaymentStatusRequest изменение статуса оплаты администратором
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// Response модели

// SlotInfo дата и время слота бронирования
type SlotInfo struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "18:00"
	EndTime   string `json:"endTime"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64  `json:"id"`
	SlotID        int64  `json:"slotId"`
	TeamID        int64  `json:"teamId"`
	TeamName      string `json:"teamName"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	// Слот может быть удалён после отмены всех бронирований
	Slot *SlotInfo `json:"slot,omitempty"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	CancelledBy *string `json:"cancelledBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, slot *domain.Slot) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:            b.ID,
		SlotID:        b.SlotID,
		TeamID:        b.TeamID,
		TeamName:      b.TeamName,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	if slot != nil {
		resp.Slot = &SlotInfo{
			Date:      slot.Date.Format(domain.DateFormat),
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		}
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}
	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO.
// slots - слоты по ID, отсутствующие слоты не выводятся
func FromDomainBookingList(bookings []*domain.Booking, slots map[int64]*domain.Slot) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, slots[booking.SlotID]); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
