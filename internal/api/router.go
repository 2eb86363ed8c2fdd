package api

import (
	"fmt"
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
)

const (
	msgRouteNotFound    = "ресурс не найден"
	msgMethodNotAllowed = "метод не поддерживается"
)

type Logger interface {
	Error(format string, v ...interface{})
}

// Routes обработчики и опциональные middleware сервиса
type Routes struct {
	Availability http.HandlerFunc
	Health       http.HandlerFunc

	// MetricsHandler и HTTPMetrics равны nil, если метрики выключены
	MetricsPath    string
	MetricsHandler http.Handler
	HTTPMetrics    middleware.HTTPMetrics

	// RateLimiter nil отключает ограничение частоты запросов
	RateLimiter *middleware.RateLimiter
}

// NewRouter собирает HTTP обработчик сервиса
// CORS открыт для любого origin на всех ответах, включая ошибки
func NewRouter(routes Routes, logger Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondNotFound(w, msgRouteNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	if routes.HTTPMetrics != nil {
		r.Use(middleware.Metrics(routes.HTTPMetrics))
	}

	if routes.MetricsHandler != nil {
		r.Handle(routes.MetricsPath, routes.MetricsHandler).Methods(http.MethodGet)
	}
	r.HandleFunc("/health", routes.Health).Methods(http.MethodGet)

	availability := r.PathPrefix("/availability").Subrouter()
	if routes.RateLimiter != nil {
		availability.Use(routes.RateLimiter.Middleware)
	}
	availability.HandleFunc("/{hostSlug}", routes.Availability).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(recoveryLogger{log: logger}),
	)(handler)
	handler = gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", middleware.HeaderRequestID}),
		gorillaHandlers.ExposedHeaders([]string{middleware.HeaderRequestID}),
	)(handler)
	handler = allowAnyOrigin(handler)

	return middleware.RequestID(handler)
}

// allowAnyOrigin ставит Access-Control-Allow-Origin и на запросы без заголовка Origin
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// recoveryLogger адаптер логгера для gorilla/handlers.RecoveryHandler
type recoveryLogger struct {
	log Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("Recovered from panic: %s", fmt.Sprint(v...))
}
