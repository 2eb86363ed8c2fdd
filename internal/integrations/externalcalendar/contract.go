package externalcalendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Provider источник занятости одного типа календаря
// start и end приходят в поясе хоста
type Provider interface {
	GetBusyTimes(ctx context.Context, conn *domain.CalendarConnection, start, end time.Time) ([]domain.BusyInterval, error)
}

type ConnectionRepository interface {
	GetByHostID(ctx context.Context, hostID int64) ([]*domain.CalendarConnection, error)
}

type Metrics interface {
	ExternalCalendarRequest(provider string, err error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
