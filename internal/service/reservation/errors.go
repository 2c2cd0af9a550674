package reservation

import "errors"

// ErrInternal возвращается при внутренних ошибках движка
var ErrInternal = errors.New("reservation: internal error")
