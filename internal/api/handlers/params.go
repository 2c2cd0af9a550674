package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

// PathInt64 положительный int64 из переменной пути
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// ParseDate дата в формате YYYY-MM-DD
func ParseDate(raw string) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", raw, domain.DateFormat)
	}
	return date, nil
}

// ParseTimeOfDay время суток в формате HH:MM
func ParseTimeOfDay(raw string) (types.TimeString, error) {
	ts, err := types.NewTimeStringFromString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: expected HH:MM", raw)
	}
	return ts, nil
}
