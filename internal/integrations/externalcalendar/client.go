package externalcalendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Client собирает занятость хоста из всех его подключенных календарей
type Client struct {
	connections ConnectionRepository
	providers   map[domain.CalendarProvider]Provider
	metrics     Metrics
	log         Logger
}

// NewClient создает новый экземпляр клиента внешних календарей
func NewClient(
	connections ConnectionRepository,
	providers map[domain.CalendarProvider]Provider,
	metrics Metrics,
	log Logger,
) *Client {
	return &Client{
		connections: connections,
		providers:   providers,
		metrics:     metrics,
		log:         log,
	}
}

// GetBusyTimes получает интервалы занятости хоста в [start, end]
// Любая ошибка оборачивается в ErrUpstreamDegraded: частичный результат не возвращается.
// Подключения с неизвестным провайдером пропускаются.
func (c *Client) GetBusyTimes(ctx context.Context, hostID int64, start, end time.Time) ([]domain.BusyInterval, error) {
	connections, err := c.connections.GetByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("%w: host_id=%d, load connections: %v", ErrUpstreamDegraded, hostID, err)
	}

	if len(connections) == 0 {
		return []domain.BusyInterval{}, nil
	}

	var (
		mu   sync.Mutex
		busy = make([]domain.BusyInterval, 0)
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, conn := range connections {
		provider, ok := c.providers[conn.Provider]
		if !ok {
			c.log.Warn("GetBusyTimes: unsupported provider %q for connection_id=%d, skipping", conn.Provider, conn.ID)
			continue
		}

		g.Go(func() error {
			intervals, err := provider.GetBusyTimes(gCtx, conn, start, end)
			c.metrics.ExternalCalendarRequest(string(conn.Provider), err)
			if err != nil {
				return fmt.Errorf("provider=%s: %v", conn.Provider, err)
			}

			mu.Lock()
			busy = append(busy, intervals...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: host_id=%d, %v", ErrUpstreamDegraded, hostID, err)
	}

	c.log.Info("GetBusyTimes: host_id=%d, connections=%d, busy_intervals=%d", hostID, len(connections), len(busy))
	return busy, nil
}
