package caldav

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Client клиент для получения занятости с CalDAV сервера
// Endpoint и учетные данные берутся из подключения, поэтому caldav.Client создается на каждый запрос
type Client struct {
	timeout time.Duration
	log     Logger
}

// NewClient создает новый экземпляр клиента CalDAV
func NewClient(timeout time.Duration, log Logger) *Client {
	return &Client{timeout: timeout, log: log}
}

// GetBusyTimes получает события коллекции в интервале [start, end] через calendar-query REPORT
// Даты без времени и "плавающее" время разрешаются в локации start
func (c *Client) GetBusyTimes(ctx context.Context, conn *domain.CalendarConnection, start, end time.Time) ([]domain.BusyInterval, error) {
	if conn.Endpoint == nil || *conn.Endpoint == "" {
		return nil, fmt.Errorf("%w: connection_id=%d", ErrMissingCredentials, conn.ID)
	}

	var httpClient webdav.HTTPClient = &http.Client{Timeout: c.timeout}
	if conn.Username != nil {
		password := ""
		if conn.Password != nil {
			password = *conn.Password
		}
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, *conn.Username, password)
	}

	client, err := caldav.NewClient(httpClient, *conn.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: connection_id=%d: %v", ErrRequestFailed, conn.ID, err)
	}

	objects, err := client.QueryCalendar(ctx, conn.CalendarID, busyQuery(start, end))
	if err != nil {
		return nil, fmt.Errorf("%w: calendar-query connection_id=%d: %v", ErrRequestFailed, conn.ID, err)
	}

	busy, err := busyIntervals(objects, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: connection_id=%d", err, conn.ID)
	}

	c.log.Info("GetBusyTimes: fetched %d busy intervals for connection_id=%d", len(busy), conn.ID)
	return busy, nil
}

// busyQuery запрашивает VEVENT, пересекающие интервал
// Сервер возвращает повторяющиеся события целиком, вхождения раскрываются в busyIntervals
func busyQuery(start, end time.Time) *caldav.CalendarQuery {
	start, end = start.UTC(), end.UTC()

	return &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: ical.CompCalendar,
			Comps: []caldav.CalendarCompRequest{{
				Name: ical.CompEvent,
				Props: []string{
					ical.PropUID,
					ical.PropDateTimeStart,
					ical.PropDateTimeEnd,
					ical.PropDuration,
					ical.PropStatus,
					ical.PropTransparency,
					ical.PropRecurrenceRule,
					ical.PropExceptionDates,
					ical.PropRecurrenceID,
				},
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: start,
				End:   end,
			}},
		},
	}
}

// busyIntervals переводит события в интервалы занятости внутри [start, end]
// Прозрачные (TRANSP:TRANSPARENT) и отмененные события не занимают время.
// Вхождения RRULE раскрываются, EXDATE и перенесенные вхождения (RECURRENCE-ID) исключаются.
func busyIntervals(objects []caldav.CalendarObject, start, end time.Time) ([]domain.BusyInterval, error) {
	loc := start.Location()
	busy := make([]domain.BusyInterval, 0, len(objects))

	for _, object := range objects {
		if object.Data == nil {
			continue
		}

		events := object.Data.Events()
		moved, err := movedOccurrences(events, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, object.Path, err)
		}

		for _, event := range events {
			if !blocksTime(event) {
				continue
			}

			intervals, err := eventIntervals(event, moved, start, end, loc)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, object.Path, err)
			}
			busy = append(busy, intervals...)
		}
	}

	return busy, nil
}

// movedOccurrences собирает RECURRENCE-ID переопределений по UID серии
func movedOccurrences(events []ical.Event, loc *time.Location) (map[string][]time.Time, error) {
	moved := make(map[string][]time.Time)
	for _, event := range events {
		if event.Props.Get(ical.PropRecurrenceID) == nil {
			continue
		}

		recurrenceID, err := event.Props.DateTime(ical.PropRecurrenceID, loc)
		if err != nil {
			return nil, fmt.Errorf("RECURRENCE-ID: %v", err)
		}
		uid, _ := event.Props.Text(ical.PropUID)
		moved[uid] = append(moved[uid], recurrenceID)
	}
	return moved, nil
}

// eventIntervals возвращает интервалы одного VEVENT
// Длительность вхождения равна DTEND-DTSTART исходного события
func eventIntervals(event ical.Event, moved map[string][]time.Time, start, end time.Time, loc *time.Location) ([]domain.BusyInterval, error) {
	first, err := event.DateTimeStart(loc)
	if err != nil {
		return nil, fmt.Errorf("DTSTART: %v", err)
	}
	firstEnd, err := event.DateTimeEnd(loc)
	if err != nil {
		return nil, fmt.Errorf("DTEND: %v", err)
	}

	duration := firstEnd.Sub(first)
	if duration <= 0 {
		return nil, nil
	}

	// одиночное событие или переопределенное вхождение серии
	if event.Props.Get(ical.PropRecurrenceID) != nil || event.Props.Get(ical.PropRecurrenceRule) == nil {
		return []domain.BusyInterval{{Start: first, End: firstEnd}}, nil
	}

	set, err := event.RecurrenceSet(loc)
	if err != nil {
		return nil, err
	}

	uid, _ := event.Props.Text(ical.PropUID)
	for _, recurrenceID := range moved[uid] {
		set.ExDate(recurrenceID)
	}

	occurrences := set.Between(start.Add(-duration), end, false)
	intervals := make([]domain.BusyInterval, 0, len(occurrences))
	for _, occurrence := range occurrences {
		intervals = append(intervals, domain.BusyInterval{Start: occurrence, End: occurrence.Add(duration)})
	}
	return intervals, nil
}

func blocksTime(event ical.Event) bool {
	if prop := event.Props.Get(ical.PropTransparency); prop != nil && strings.EqualFold(prop.Value, "TRANSPARENT") {
		return false
	}
	if prop := event.Props.Get(ical.PropStatus); prop != nil && strings.EqualFold(prop.Value, string(ical.EventCancelled)) {
		return false
	}
	return true
}
