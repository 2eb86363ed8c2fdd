package get_host_availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // встроенная база часовых поясов

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// UseCase use case для расчета доступности хоста
type UseCase struct {
	hostRepo         HostRepository
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	externalCalendar ExternalCalendarClient
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger

	settings        Settings
	defaultLocation *time.Location
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	hostRepo HostRepository,
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	externalCalendar ExternalCalendarClient,
	metrics Metrics,
	settings Settings,
	logger Logger,
) (*UseCase, error) {
	settings = settings.withDefaults()

	defaultLocation, err := time.LoadLocation(settings.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load default timezone %q: %v", ErrInternal, settings.DefaultTimezone, err)
	}

	return &UseCase{
		hostRepo:         hostRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		externalCalendar: externalCalendar,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		settings:         settings,
		defaultLocation:  defaultLocation,
	}, nil
}

// Execute выполняет use case получения доступности хоста
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	slug := strings.TrimSpace(req.HostSlug)
	rid := req.RequestID
	if slug == "" {
		uc.logger.Warn("GetHostAvailability: empty host slug, request_id=%s", rid)
		return nil, fmt.Errorf("%w: host slug is required", ErrInvalidInput)
	}

	// 1. Ищем хоста
	host, strategy, err := uc.resolveHost(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrHostNotFound) {
			uc.logger.Warn("GetHostAvailability: host %q not found, request_id=%s", slug, rid)
		} else {
			uc.logger.Error("GetHostAvailability: failed to resolve host %q, request_id=%s: %v", slug, rid, err)
		}
		return nil, err
	}
	uc.logger.Info("GetHostAvailability: slug=%q resolved to host id=%d via %s, request_id=%s", slug, host.ID, strategy, rid)

	// 2. Часовой пояс и окна расчета
	loc := uc.hostLocation(host)
	now := uc.timeProvider.Now()
	bookingsBefore := now.AddDate(0, 0, uc.settings.LookaheadDays)
	// окно внешних календарей в поясе хоста: по нему провайдеры разрешают даты без времени
	externalStart := now.In(loc)
	externalEnd := externalStart.AddDate(0, uc.settings.ExternalLookaheadMonths, 0)

	// 3. Правила, бронирования и внешняя занятость загружаются параллельно
	var (
		rules    []*domain.WeeklyAvailabilityRule
		bookings []*domain.Booking
		busy     []domain.BusyInterval
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rules, err = uc.availabilityRepo.GetActiveByHostID(gCtx, host.ID)
		if err != nil {
			return fmt.Errorf("failed to get availability rules: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = uc.bookingRepo.GetByHostStartingBefore(gCtx, host.ID, bookingsBefore)
		if err != nil {
			return fmt.Errorf("failed to get bookings: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		busy = uc.fetchBusyTimes(gCtx, host.ID, externalStart, externalEnd, rid)
		return nil
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("GetHostAvailability: host id=%d, request_id=%s: %v", host.ID, rid, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			uc.logger.Error("GetHostAvailability: host id=%d, request_id=%s: %v", host.ID, rid, err)
			return nil, fmt.Errorf("%w: %w: %v", ErrInternal, ErrInvalidRule, err)
		}
	}

	// 4. Слоты и занятость
	slots := generateSlots(rules, now, uc.settings.LookaheadDays, loc)
	external := externalEntries(slots, busy)
	booked := bookingEntries(bookings, loc)

	uc.metrics.BlockedSlotsComputed(string(domain.SourceExternal), len(external))
	uc.metrics.BlockedSlotsComputed(string(domain.SourceBooking), len(booked))

	uc.logger.Info("GetHostAvailability: host id=%d, tz=%s, rules=%d, slots=%d, external=%d, bookings=%d, request_id=%s",
		host.ID, loc, len(rules), len(slots), len(external), len(booked), rid)

	return &Response{
		HostID:       host.ID,
		Availability: rules,
		BookedSlots:  mergeEntries(external, booked),
		HostTimezone: loc.String(),
		PrimaryColor: host.PrimaryColor,
	}, nil
}

// hostLocation возвращает пояс хоста или пояс по умолчанию
// Некорректное имя пояса не ломает запрос
func (uc *UseCase) hostLocation(host *domain.Host) *time.Location {
	if host.Timezone == nil || strings.TrimSpace(*host.Timezone) == "" {
		return uc.defaultLocation
	}

	loc, err := time.LoadLocation(strings.TrimSpace(*host.Timezone))
	if err != nil {
		uc.logger.Warn("GetHostAvailability: host id=%d has invalid timezone %q, using %s: %v",
			host.ID, *host.Timezone, uc.defaultLocation, err)
		return uc.defaultLocation
	}
	return loc
}

// fetchBusyTimes получает внешнюю занятость с graceful degradation
// При любой ошибке возвращает пустой список.
// Отмена ctx соседней загрузкой не считается отказом календарей: запрос все равно завершится ошибкой.
func (uc *UseCase) fetchBusyTimes(ctx context.Context, hostID int64, start, end time.Time, rid string) []domain.BusyInterval {
	busy, err := uc.externalCalendar.GetBusyTimes(ctx, hostID, start, end)
	if err != nil {
		if ctx.Err() != nil {
			uc.logger.Warn("GetHostAvailability: external calendars fetch cancelled for host id=%d, request_id=%s: %v",
				hostID, rid, ctx.Err())
			return []domain.BusyInterval{}
		}
		uc.logger.Error("GetHostAvailability: external calendars unavailable for host id=%d, request_id=%s, continuing without them: %v",
			hostID, rid, err)
		uc.metrics.ExternalCalendarFallback()
		return []domain.BusyInterval{}
	}
	return busy
}
