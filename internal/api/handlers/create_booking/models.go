package create_booking

import (
	"time"

	bookSlot "github.com/m04kA/SMC-GroundBooking/internal/usecase/book_slot"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID int64 `json:"slotId" validate:"required,gt=0"`
}

// SlotStateResponse состояние слота после бронирования
type SlotStateResponse struct {
	Capacity    int  `json:"capacity"`
	BookedCount int  `json:"bookedCount"`
	Remaining   int  `json:"remaining"`
	IsFull      bool `json:"isFull"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64             `json:"id"`
	SlotID        int64             `json:"slotId"`
	TeamID        int64             `json:"teamId"`
	TeamName      string            `json:"teamName"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"paymentStatus"`
	Slot          SlotStateResponse `json:"slot"`
	CreatedAt     string            `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) *bookSlot.Request {
	return &bookSlot.Request{
		UserID: userID,
		SlotID: r.SlotID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSlot.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		SlotID:        resp.SlotID,
		TeamID:        resp.TeamID,
		TeamName:      resp.TeamName,
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		Slot: SlotStateResponse{
			Capacity:    resp.Capacity,
			BookedCount: resp.BookedCount,
			Remaining:   resp.Remaining,
			IsFull:      resp.IsFull,
		},
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
	}
}
