package googlecalendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Config параметры клиента Google Calendar
type Config struct {
	ClientID     string
	ClientSecret string
	// Endpoint базовый URL Calendar API, пустой означает production
	Endpoint string
	// TokenURL адрес обновления токенов, пустой означает google.Endpoint
	TokenURL string
	Timeout  time.Duration
}

// Client клиент для получения занятости из Google Calendar
type Client struct {
	oauth    *oauth2.Config
	endpoint string
	timeout  time.Duration
	log      Logger
}

// NewClient создает новый экземпляр клиента Google Calendar
func NewClient(cfg Config, log Logger) *Client {
	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{calendar.CalendarReadonlyScope},
		},
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		log:      log,
	}
}

// GetBusyTimes получает интервалы занятости календаря подключения через freeBusy.query
// Просроченный access token обновляется по refresh token, новый токен не сохраняется
func (c *Client) GetBusyTimes(ctx context.Context, conn *domain.CalendarConnection, start, end time.Time) ([]domain.BusyInterval, error) {
	token, err := tokenFromConnection(conn)
	if err != nil {
		return nil, err
	}

	service, err := c.newService(ctx, token)
	if err != nil {
		return nil, err
	}

	calendarID := conn.CalendarID
	if calendarID == "" {
		calendarID = domain.DefaultGoogleCalendarID
	}

	resp, err := service.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: start.UTC().Format(time.RFC3339),
		TimeMax: end.UTC().Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: freeBusy.query connection_id=%d: %v", ErrRequestFailed, conn.ID, err)
	}

	busy, err := parseFreeBusy(resp, calendarID)
	if err != nil {
		return nil, fmt.Errorf("%w: connection_id=%d", err, conn.ID)
	}

	c.log.Info("GetBusyTimes: fetched %d busy intervals for connection_id=%d", len(busy), conn.ID)
	return busy, nil
}

func (c *Client) newService(ctx context.Context, token *oauth2.Token) (*calendar.Service, error) {
	httpClient := &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: c.oauth.TokenSource(ctx, token),
			Base:   http.DefaultTransport,
		},
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create calendar service: %v", ErrInternal, err)
	}
	return service, nil
}

func tokenFromConnection(conn *domain.CalendarConnection) (*oauth2.Token, error) {
	token := &oauth2.Token{TokenType: "Bearer"}
	if conn.AccessToken != nil {
		token.AccessToken = *conn.AccessToken
	}
	if conn.RefreshToken != nil {
		token.RefreshToken = *conn.RefreshToken
	}
	if conn.TokenExpiry != nil {
		token.Expiry = *conn.TokenExpiry
	}

	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: connection_id=%d", ErrMissingCredentials, conn.ID)
	}
	return token, nil
}

// parseFreeBusy достает интервалы занятости календаря из ответа
// Ошибки уровня календаря (notFound, доступ запрещен) считаются ошибкой ответа
func parseFreeBusy(resp *calendar.FreeBusyResponse, calendarID string) ([]domain.BusyInterval, error) {
	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("%w: calendar %q missing in response", ErrInvalidResponse, calendarID)
	}

	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("%w: calendar %q: %s", ErrInvalidResponse, calendarID, cal.Errors[0].Reason)
	}

	busy := make([]domain.BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: busy start %q: %v", ErrInvalidResponse, period.Start, err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("%w: busy end %q: %v", ErrInvalidResponse, period.End, err)
		}
		busy = append(busy, domain.BusyInterval{Start: start, End: end})
	}

	return busy, nil
}
