package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

// IsUniqueViolation true, если ошибка вызвана нарушением уникального ограничения
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsCheckViolation true, если ошибка вызвана нарушением CHECK ограничения
func IsCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

// Constraint возвращает имя нарушенного ограничения
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	return false
}
