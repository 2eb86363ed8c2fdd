package get_host_availability

import "github.com/m04kA/SMC-AvailabilityService/internal/domain"

// Request модель запроса доступности хоста
type Request struct {
	HostSlug  string // ID, email или нормализованное имя хоста
	RequestID string // X-Request-ID для логов, может быть пустым
}

// Response модель ответа с правилами и занятыми слотами
type Response struct {
	HostID       int64
	Availability []*domain.WeeklyAvailabilityRule // Активные правила как есть
	BookedSlots  []domain.BlockedSlotEntry        // Отсортированы по (Date, StartTime)
	HostTimezone string                           // IANA имя фактически использованного пояса
	PrimaryColor *string
}

// Settings параметры окон расчета
type Settings struct {
	DefaultTimezone         string
	LookaheadDays           int
	ExternalLookaheadMonths int
}

func (s Settings) withDefaults() Settings {
	if s.DefaultTimezone == "" {
		s.DefaultTimezone = domain.DefaultTimezone
	}
	if s.LookaheadDays <= 0 {
		s.LookaheadDays = domain.DefaultLookaheadDays
	}
	if s.ExternalLookaheadMonths <= 0 {
		s.ExternalLookaheadMonths = domain.DefaultExternalLookaheadMonths
	}
	return s
}
