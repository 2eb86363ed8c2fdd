package get_host_availability

import (
	getHostAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_host_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// HostAvailabilityResponse HTTP response model
type HostAvailabilityResponse struct {
	Availability []AvailabilityRule `json:"availability"`
	BookedSlots  []BookedSlot       `json:"bookedSlots"`
	HostTimezone string             `json:"hostTimezone"`
	PrimaryColor *string            `json:"primaryColor"`
}

// AvailabilityRule еженедельное правило доступности
type AvailabilityRule struct {
	ID              int64            `json:"id"`
	DayOfWeek       int              `json:"dayOfWeek"`
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
	DurationMinutes int              `json:"durationMinutes"`
	BufferMinutes   int              `json:"bufferMinutes"`
	Active          bool             `json:"active"`
}

// BookedSlot занятый слот
type BookedSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Source    string `json:"source"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getHostAvailability.Response) *HostAvailabilityResponse {
	rules := make([]AvailabilityRule, len(resp.Availability))
	for i, rule := range resp.Availability {
		rules[i] = AvailabilityRule{
			ID:              rule.ID,
			DayOfWeek:       rule.DayOfWeek,
			StartTime:       rule.StartTime,
			EndTime:         rule.EndTime,
			DurationMinutes: rule.DurationMinutes,
			BufferMinutes:   rule.BufferMinutes,
			Active:          rule.IsActive,
		}
	}

	slots := make([]BookedSlot, len(resp.BookedSlots))
	for i, entry := range resp.BookedSlots {
		slots[i] = BookedSlot{
			Date:      entry.Date,
			StartTime: entry.StartTime,
			Source:    string(entry.Source),
		}
	}

	return &HostAvailabilityResponse{
		Availability: rules,
		BookedSlots:  slots,
		HostTimezone: resp.HostTimezone,
		PrimaryColor: resp.PrimaryColor,
	}
}
