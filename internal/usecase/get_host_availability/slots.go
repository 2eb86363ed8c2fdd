package get_host_availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// generateSlots строит слоты всех правил на days дней вперед от полуночи now в поясе loc
// Курсор идет от начала правила с шагом duration+buffer, пока слот целиком помещается в окно.
// Слоты это "наивное" местное время на календарной дате, переходы DST не корректируются.
func generateSlots(rules []*domain.WeeklyAvailabilityRule, now time.Time, days int, loc *time.Location) []domain.GeneratedSlot {
	local := now.In(loc)
	year, month, day := local.Date()

	slots := make([]domain.GeneratedSlot, 0)
	for offset := 0; offset < days; offset++ {
		date := time.Date(year, month, day+offset, 0, 0, 0, 0, loc)

		for _, rule := range rules {
			if !rule.AppliesTo(date.Weekday()) {
				continue
			}

			duration := time.Duration(rule.DurationMinutes) * time.Minute
			end := rule.EndTime.Minutes()

			for cursor := rule.StartTime.Minutes(); cursor+rule.DurationMinutes <= end; cursor += rule.Step() {
				start := time.Date(date.Year(), date.Month(), date.Day(), 0, cursor, 0, 0, loc)
				slots = append(slots, domain.GeneratedSlot{
					Start:       start,
					End:         start.Add(duration),
					StartTime24: start.Format(domain.TimeFormat),
				})
			}
		}
	}

	return slots
}

// externalEntries отмечает слоты, пересекающиеся хотя бы с одним интервалом занятости
// Один слот дает не больше одной записи, дата и время берутся в поясе слота
func externalEntries(slots []domain.GeneratedSlot, busy []domain.BusyInterval) []domain.BlockedSlotEntry {
	entries := make([]domain.BlockedSlotEntry, 0)
	if len(busy) == 0 {
		return entries
	}

	for _, slot := range slots {
		for _, interval := range busy {
			if slot.Overlaps(interval) {
				entries = append(entries, domain.BlockedSlotEntry{
					Date:      slot.Start.Format(domain.DateFormat),
					StartTime: slot.StartTime24,
					Source:    domain.SourceExternal,
				})
				break
			}
		}
	}

	return entries
}

// bookingEntries переводит начало каждого бронирования в дату и время пояса хоста
// Бронирование не привязывается к сетке слотов
func bookingEntries(bookings []*domain.Booking, loc *time.Location) []domain.BlockedSlotEntry {
	entries := make([]domain.BlockedSlotEntry, 0, len(bookings))
	for _, booking := range bookings {
		start := booking.StartTime.In(loc)
		entries = append(entries, domain.BlockedSlotEntry{
			Date:      start.Format(domain.DateFormat),
			StartTime: start.Format(domain.TimeFormat),
			Source:    domain.SourceBooking,
		})
	}
	return entries
}

// mergeEntries объединяет внешние записи и записи бронирований
// Сортировка стабильная: при равном (Date, StartTime) внешние остаются первыми
func mergeEntries(external, bookings []domain.BlockedSlotEntry) []domain.BlockedSlotEntry {
	merged := make([]domain.BlockedSlotEntry, 0, len(external)+len(bookings))
	merged = append(merged, external...)
	merged = append(merged, bookings...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Less(merged[j])
	})
	return merged
}
