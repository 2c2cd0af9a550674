package reservation

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// Config политика бронирования. Передаётся явно при создании движка
type Config struct {
	MinRosterSize int            // минимальный состав команды
	Location      *time.Location // часовой пояс площадки, в нём считается начало слота
	LockTimeout   time.Duration  // максимальное ожидание блокировки слота, 0 - до отмены ctx
}

// BookRequest запрос на бронирование от имени команды.
// TeamID, TeamName и RosterSize приходят из сервиса команд и не перепроверяются
type BookRequest struct {
	SlotID     int64
	TeamID     int64
	TeamName   string
	RosterSize int
}

// BookResult созданное бронирование и состояние слота после него
type BookResult struct {
	Booking *domain.Booking
	Slot    domain.SlotAvailability
}

// CancelRequest запрос на отмену
type CancelRequest struct {
	BookingID       int64
	RequesterTeamID int64 // команда капитана, для администратора может быть 0
	IsAdmin         bool
}

// CancelResult отменённое бронирование и состояние слота после отмены
type CancelResult struct {
	Booking *domain.Booking
	Slot    domain.SlotAvailability
}
