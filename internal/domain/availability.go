package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// WeeklyAvailabilityRule повторяющееся еженедельное окно доступности хоста
// На один день недели может быть несколько правил (например, утро и вечер)
type WeeklyAvailabilityRule struct {
	ID              int64
	HostID          int64
	DayOfWeek       int // 0 = воскресенье ... 6 = суббота
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	BufferMinutes   int
	IsActive        bool
}

// Validate проверяет инварианты правила
func (r *WeeklyAvailabilityRule) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("%w: rule id=%d dayOfWeek=%d out of range", ErrMalformedRule, r.ID, r.DayOfWeek)
	}
	if !r.StartTime.IsBefore(r.EndTime) {
		return fmt.Errorf("%w: rule id=%d startTime=%s is not before endTime=%s",
			ErrMalformedRule, r.ID, r.StartTime, r.EndTime)
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("%w: rule id=%d durationMinutes=%d must be positive", ErrMalformedRule, r.ID, r.DurationMinutes)
	}
	if r.BufferMinutes < 0 {
		return fmt.Errorf("%w: rule id=%d bufferMinutes=%d must not be negative", ErrMalformedRule, r.ID, r.BufferMinutes)
	}
	return nil
}

// AppliesTo returns true if the rule is active on the given weekday
func (r *WeeklyAvailabilityRule) AppliesTo(weekday time.Weekday) bool {
	return r.IsActive && time.Weekday(r.DayOfWeek) == weekday
}

// Step шаг курсора генерации слотов в минутах
func (r *WeeklyAvailabilityRule) Step() int {
	return r.DurationMinutes + r.BufferMinutes
}
