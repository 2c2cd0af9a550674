package book_slot

import "errors"

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = errors.New("book_slot: internal error")
