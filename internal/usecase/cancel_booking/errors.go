package cancel_booking

import "errors"

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = errors.New("cancel_booking: internal error")
