package cancel_booking

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// Request модель запроса на отмену
type Request struct {
	UserID    int64       // ID пользователя
	Role      domain.Role // роль из заголовков шлюза
	BookingID int64       // ID бронирования
}

// Response отменённое бронирование и состояние слота
type Response struct {
	ID          int64
	SlotID      int64
	TeamID      int64
	Status      string
	CancelledBy string
	CancelledAt time.Time

	Remaining int
	IsFull    bool
}
