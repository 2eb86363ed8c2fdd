package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// unmatchedPath метка пути для запросов без маршрута
const unmatchedPath = "unmatched"

// Metrics записывает длительность и статус запросов
// Путь берется из шаблона маршрута mux ("/availability/{hostSlug}")
func Metrics(recorder HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			recorder.ObserveHTTPRequest(r.Method, routePath(r), wrapped.status, time.Since(start))
		})
	}
}

func routePath(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedPath
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedPath
	}
	return tpl
}

// statusWriter оборачивает http.ResponseWriter для захвата статус-кода
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
