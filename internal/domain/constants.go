package domain

// Reservation policy defaults
const (
	DefaultMinRosterSize = 7
	DefaultTimezone      = "UTC"
)

// Business validation constants
const (
	MinSlotCapacity      = 1
	MaxSlotCapacity      = 100
	MaxBulkRangeDays     = 366
	MaxCalendarRangeDays = 62
	MaxTemplatesPerBulk  = 48
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
