package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		respond func(w http.ResponseWriter)
		status  int
		message string
	}{
		{name: "bad request", respond: func(w http.ResponseWriter) { RespondBadRequest(w, "плохой запрос") }, status: http.StatusBadRequest, message: "плохой запрос"},
		{name: "not found", respond: func(w http.ResponseWriter) { RespondNotFound(w, "не найдено") }, status: http.StatusNotFound, message: "не найдено"},
		{name: "too many requests", respond: RespondTooManyRequests, status: http.StatusTooManyRequests, message: msgTooManyRequests},
		{name: "unavailable", respond: RespondServiceUnavailable, status: http.StatusServiceUnavailable, message: msgUnavailable},
		{name: "internal", respond: RespondInternalError, status: http.StatusInternalServerError, message: msgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.respond(rec)

			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
