package book_slot

import "time"

// Request модель запроса на бронирование слота капитаном
type Request struct {
	UserID int64 // ID пользователя-капитана
	SlotID int64 // ID слота
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64  // ID созданного бронирования
	SlotID        int64  // ID слота
	TeamID        int64  // ID команды
	TeamName      string // Название команды
	Status        string // Статус бронирования
	PaymentStatus string // Статус оплаты

	// Состояние слота после бронирования
	Capacity    int
	BookedCount int
	Remaining   int
	IsFull      bool

	CreatedAt time.Time // Время создания
}
