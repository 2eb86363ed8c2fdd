package domain

import "time"

// BlockedSource источник блокировки слота
type BlockedSource string

const (
	SourceBooking  BlockedSource = "booking"
	SourceExternal BlockedSource = "external"
)

// GeneratedSlot слот, построенный из правила для конкретной даты (не хранится)
type GeneratedSlot struct {
	Start       time.Time
	End         time.Time
	StartTime24 string // "HH:MM" в часовом поясе хоста
}

// Overlaps проверяет пересечение слота с интервалом занятости
// Граничащие интервалы (конец одного = начало другого) НЕ пересекаются
func (s GeneratedSlot) Overlaps(busy BusyInterval) bool {
	return s.Start.Before(busy.End) && s.End.After(busy.Start)
}

// BlockedSlotEntry пара (дата, время), недоступная для бронирования
type BlockedSlotEntry struct {
	Date      string // "YYYY-MM-DD" в часовом поясе хоста
	StartTime string // "HH:MM" в часовом поясе хоста
	Source    BlockedSource
}

// Less порядок по (Date, StartTime); строки фиксированной ширины, поэтому
// лексикографическое сравнение совпадает с хронологическим
func (e BlockedSlotEntry) Less(other BlockedSlotEntry) bool {
	if e.Date != other.Date {
		return e.Date < other.Date
	}
	return e.StartTime < other.StartTime
}
