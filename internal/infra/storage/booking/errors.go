package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrNotConfirmed возвращается, когда условная отмена не прошла (бронирование уже отменено)
	ErrNotConfirmed = errors.New("booking.repository: booking is not confirmed")

	// ErrDuplicateConfirmed возвращается при нарушении уникальности (slot_id, team_id) для confirmed
	ErrDuplicateConfirmed = errors.New("booking.repository: team already has a confirmed booking for slot")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
