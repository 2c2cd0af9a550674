package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotAlreadyExists возвращается при дублировании (дата, начало, конец)
	ErrSlotAlreadyExists = errors.New("slot.repository: slot already exists")

	// ErrCapacityExceeded возвращается, когда условный инкремент не прошёл (booked_count >= capacity)
	ErrCapacityExceeded = errors.New("slot.repository: capacity exceeded")

	// ErrCounterUnderflow возвращается, когда условный декремент не прошёл (booked_count = 0)
	ErrCounterUnderflow = errors.New("slot.repository: booked count underflow")

	// ErrSlotHasBookings возвращается при удалении слота с подтверждёнными бронированиями
	ErrSlotHasBookings = errors.New("slot.repository: slot has bookings")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
