package domain

import "errors"

// Значения по умолчанию
const (
	DefaultTimezone                = "America/New_York"
	DefaultLookaheadDays           = 30
	DefaultExternalLookaheadMonths = 3 // ограничение API внешних календарей
	DefaultGoogleCalendarID        = "primary"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ErrMalformedRule правило доступности нарушает инварианты
var ErrMalformedRule = errors.New("domain: malformed availability rule")
