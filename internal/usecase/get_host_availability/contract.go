package get_host_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// HostRepository интерфейс репозитория хостов
type HostRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Host, error)
	GetByEmail(ctx context.Context, email string) (*domain.Host, error)
	GetByNameSlug(ctx context.Context, slug string) (*domain.Host, error)
}

// AvailabilityRepository интерфейс репозитория правил доступности
type AvailabilityRepository interface {
	// GetActiveByHostID получает активные правила хоста
	GetActiveByHostID(ctx context.Context, hostID int64) ([]*domain.WeeklyAvailabilityRule, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByHostStartingBefore получает бронирования хоста, начинающиеся раньше before
	GetByHostStartingBefore(ctx context.Context, hostID int64, before time.Time) ([]*domain.Booking, error)
}

// ExternalCalendarClient интерфейс клиента внешних календарей
// Ошибка означает деградацию: вызывающий код продолжает без внешней занятости
type ExternalCalendarClient interface {
	GetBusyTimes(ctx context.Context, hostID int64, start, end time.Time) ([]domain.BusyInterval, error)
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	ExternalCalendarFallback()
	BlockedSlotsComputed(source string, count int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
