package externalcalendar

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type mockConnectionRepository struct {
	mock.Mock
}

func (m *mockConnectionRepository) GetByHostID(ctx context.Context, hostID int64) ([]*domain.CalendarConnection, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CalendarConnection), args.Error(1)
}

type fakeProvider struct {
	busy []domain.BusyInterval
	err  error
}

func (f fakeProvider) GetBusyTimes(context.Context, *domain.CalendarConnection, time.Time, time.Time) ([]domain.BusyInterval, error) {
	return f.busy, f.err
}

type recordingMetrics struct {
	mu       sync.Mutex
	requests map[string]int
	failures int
}

func (r *recordingMetrics) ExternalCalendarRequest(provider string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.requests == nil {
		r.requests = make(map[string]int)
	}
	r.requests[provider]++
	if err != nil {
		r.failures++
	}
}

var (
	start = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	end   = start.AddDate(0, 3, 0)
)

func interval(day, hour int) domain.BusyInterval {
	s := time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC)
	return domain.BusyInterval{Start: s, End: s.Add(time.Hour)}
}

func TestClient_GetBusyTimes_MergesProviders(t *testing.T) {
	repo := &mockConnectionRepository{}
	repo.On("GetByHostID", mock.Anything, int64(1)).Return([]*domain.CalendarConnection{
		{ID: 1, Provider: domain.ProviderGoogle},
		{ID: 2, Provider: domain.ProviderCalDAV},
		{ID: 3, Provider: "outlook"},
	}, nil)

	metrics := &recordingMetrics{}
	client := NewClient(repo, map[domain.CalendarProvider]Provider{
		domain.ProviderGoogle: fakeProvider{busy: []domain.BusyInterval{interval(2, 9)}},
		domain.ProviderCalDAV: fakeProvider{busy: []domain.BusyInterval{interval(3, 10), interval(4, 11)}},
	}, metrics, logger.NewNop())

	busy, err := client.GetBusyTimes(context.Background(), 1, start, end)
	require.NoError(t, err)

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	assert.Equal(t, []domain.BusyInterval{interval(2, 9), interval(3, 10), interval(4, 11)}, busy)
	assert.Equal(t, map[string]int{"google": 1, "caldav": 1}, metrics.requests)
	assert.Zero(t, metrics.failures)
	repo.AssertExpectations(t)
}

func TestClient_GetBusyTimes_NoConnections(t *testing.T) {
	repo := &mockConnectionRepository{}
	repo.On("GetByHostID", mock.Anything, int64(1)).Return([]*domain.CalendarConnection{}, nil)

	client := NewClient(repo, nil, &recordingMetrics{}, logger.NewNop())

	busy, err := client.GetBusyTimes(context.Background(), 1, start, end)
	require.NoError(t, err)
	assert.NotNil(t, busy)
	assert.Empty(t, busy)
}

func TestClient_GetBusyTimes_Degraded(t *testing.T) {
	t.Run("provider failure discards partial result", func(t *testing.T) {
		repo := &mockConnectionRepository{}
		repo.On("GetByHostID", mock.Anything, int64(1)).Return([]*domain.CalendarConnection{
			{ID: 1, Provider: domain.ProviderGoogle},
			{ID: 2, Provider: domain.ProviderCalDAV},
		}, nil)

		metrics := &recordingMetrics{}
		client := NewClient(repo, map[domain.CalendarProvider]Provider{
			domain.ProviderGoogle: fakeProvider{busy: []domain.BusyInterval{interval(2, 9)}},
			domain.ProviderCalDAV: fakeProvider{err: errors.New("connection refused")},
		}, metrics, logger.NewNop())

		busy, err := client.GetBusyTimes(context.Background(), 1, start, end)
		assert.ErrorIs(t, err, ErrUpstreamDegraded)
		assert.Nil(t, busy)
		assert.Equal(t, 1, metrics.failures)
	})

	t.Run("connection lookup failure", func(t *testing.T) {
		repo := &mockConnectionRepository{}
		repo.On("GetByHostID", mock.Anything, int64(1)).Return(nil, errors.New("db down"))

		client := NewClient(repo, nil, &recordingMetrics{}, logger.NewNop())

		_, err := client.GetBusyTimes(context.Background(), 1, start, end)
		assert.ErrorIs(t, err, ErrUpstreamDegraded)
	})
}
