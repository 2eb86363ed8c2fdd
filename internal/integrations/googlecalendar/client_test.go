package googlecalendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

func strPtr(s string) *string { return &s }

type fakeCalendarAPI struct {
	t            *testing.T
	status       int
	response     string
	lastAuth     string
	lastRequest  map[string]interface{}
	tokenRefresh int
}

func (f *fakeCalendarAPI) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/freeBusy", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.lastRequest))

		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		_, _ = w.Write([]byte(f.response))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenRefresh++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
	})
	return httptest.NewServer(mux)
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     srv.URL + "/",
		TokenURL:     srv.URL + "/token",
		Timeout:      5 * time.Second,
	}, logger.NewNop())
}

func TestClient_GetBusyTimes(t *testing.T) {
	api := &fakeCalendarAPI{t: t, response: `{
		"kind": "calendar#freeBusy",
		"calendars": {
			"primary": {
				"busy": [
					{"start": "2025-06-02T17:45:00Z", "end": "2025-06-02T18:15:00Z"},
					{"start": "2025-06-03T09:00:00-04:00", "end": "2025-06-03T10:00:00-04:00"}
				]
			}
		}
	}`}
	srv := api.server()
	defer srv.Close()

	conn := &domain.CalendarConnection{
		ID:          1,
		Provider:    domain.ProviderGoogle,
		CalendarID:  "primary",
		AccessToken: strPtr("valid-token"),
	}
	start := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)

	busy, err := newTestClient(srv).GetBusyTimes(context.Background(), conn, start, end)
	require.NoError(t, err)
	require.Len(t, busy, 2)

	assert.True(t, busy[0].Start.Equal(time.Date(2025, time.June, 2, 17, 45, 0, 0, time.UTC)))
	assert.True(t, busy[0].End.Equal(time.Date(2025, time.June, 2, 18, 15, 0, 0, time.UTC)))
	assert.True(t, busy[1].Start.Equal(time.Date(2025, time.June, 3, 13, 0, 0, 0, time.UTC)))

	assert.Equal(t, "Bearer valid-token", api.lastAuth)
	assert.Equal(t, "2025-06-01T12:00:00Z", api.lastRequest["timeMin"])
	assert.Equal(t, "2025-09-01T12:00:00Z", api.lastRequest["timeMax"])
	assert.Equal(t, 0, api.tokenRefresh)
}

func TestClient_GetBusyTimes_RefreshesExpiredToken(t *testing.T) {
	api := &fakeCalendarAPI{t: t, response: `{"calendars": {"work@example.com": {"busy": []}}}`}
	srv := api.server()
	defer srv.Close()

	expired := time.Now().Add(-time.Hour)
	conn := &domain.CalendarConnection{
		ID:           2,
		CalendarID:   "work@example.com",
		AccessToken:  strPtr("stale"),
		RefreshToken: strPtr("refresh"),
		TokenExpiry:  &expired,
	}

	busy, err := newTestClient(srv).GetBusyTimes(context.Background(), conn, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, busy)
	assert.Equal(t, 1, api.tokenRefresh)
	assert.Equal(t, "Bearer fresh", api.lastAuth)
}

func TestClient_GetBusyTimes_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		wantErr  error
	}{
		{
			name:     "api error",
			status:   http.StatusForbidden,
			response: `{"error": {"code": 403, "message": "forbidden"}}`,
			wantErr:  ErrRequestFailed,
		},
		{
			name:     "calendar level error",
			response: `{"calendars": {"primary": {"errors": [{"domain": "global", "reason": "notFound"}]}}}`,
			wantErr:  ErrInvalidResponse,
		},
		{
			name:     "calendar missing",
			response: `{"calendars": {}}`,
			wantErr:  ErrInvalidResponse,
		},
		{
			name:     "malformed period",
			response: `{"calendars": {"primary": {"busy": [{"start": "yesterday", "end": "today"}]}}}`,
			wantErr:  ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeCalendarAPI{t: t, status: tt.status, response: tt.response}
			srv := api.server()
			defer srv.Close()

			conn := &domain.CalendarConnection{ID: 3, AccessToken: strPtr("token")}
			_, err := newTestClient(srv).GetBusyTimes(context.Background(), conn, time.Now(), time.Now().Add(time.Hour))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_GetBusyTimes_MissingCredentials(t *testing.T) {
	client := NewClient(Config{Timeout: time.Second}, logger.NewNop())

	_, err := client.GetBusyTimes(context.Background(), &domain.CalendarConnection{ID: 4}, time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
