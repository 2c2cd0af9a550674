package cancel_booking

import (
	"time"

	cancelBooking "github.com/m04kA/SMC-GroundBooking/internal/usecase/cancel_booking"
)

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID          int64  `json:"id"`
	SlotID      int64  `json:"slotId"`
	TeamID      int64  `json:"teamId"`
	Status      string `json:"status"`
	CancelledBy string `json:"cancelledBy"`
	CancelledAt string `json:"cancelledAt"`
	Remaining   int    `json:"remaining"`
	IsFull      bool   `json:"isFull"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:          resp.ID,
		SlotID:      resp.SlotID,
		TeamID:      resp.TeamID,
		Status:      resp.Status,
		CancelledBy: resp.CancelledBy,
		CancelledAt: resp.CancelledAt.Format(time.RFC3339),
		Remaining:   resp.Remaining,
		IsFull:      resp.IsFull,
	}
}
