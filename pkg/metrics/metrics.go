package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-коллекторов сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration     *prometheus.HistogramVec
	DBQueryErrors       *prometheus.CounterVec
	DBOpenConnections   prometheus.Gauge
	DBInUseConnections  prometheus.Gauge
	DBIdleConnections   prometheus.Gauge
	DBWaitCount         prometheus.Gauge
	DBWaitDurationTotal prometheus.Gauge

	ExternalCalendarRequests *prometheus.CounterVec
	ExternalCalendarDegraded prometheus.Counter
	BlockedSlots             *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре (его отдает promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: labels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: labels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),
		DBWaitDurationTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_duration_seconds_total",
			Help:        "Total time blocked waiting for a new connection",
			ConstLabels: labels,
		}),

		ExternalCalendarRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "external_calendar_requests_total",
			Help:        "External calendar busy-time requests by provider and result",
			ConstLabels: labels,
		}, []string{"provider", "result"}),
		ExternalCalendarDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "external_calendar_degraded_total",
			Help:        "Availability responses computed without external busy times",
			ConstLabels: labels,
		}),
		BlockedSlots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_blocked_slots_total",
			Help:        "Blocked slot entries returned, by source",
			ConstLabels: labels,
		}, []string{"source"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBWaitDurationTotal,
		m.ExternalCalendarRequests,
		m.ExternalCalendarDegraded,
		m.BlockedSlots,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершенный HTTP-запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBStats обновляет метрики пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	m.DBOpenConnections.Set(float64(stats.OpenConnections))
	m.DBInUseConnections.Set(float64(stats.InUse))
	m.DBIdleConnections.Set(float64(stats.Idle))
	m.DBWaitCount.Set(float64(stats.WaitCount))
	m.DBWaitDurationTotal.Set(stats.WaitDuration.Seconds())
}

// ExternalCalendarRequest фиксирует запрос к провайдеру внешнего календаря
func (m *Metrics) ExternalCalendarRequest(provider string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ExternalCalendarRequests.WithLabelValues(provider, result).Inc()
}

// ExternalCalendarFallback фиксирует ответ, посчитанный без внешнего календаря
func (m *Metrics) ExternalCalendarFallback() {
	m.ExternalCalendarDegraded.Inc()
}

// BlockedSlotsComputed фиксирует количество заблокированных слотов по источнику
func (m *Metrics) BlockedSlotsComputed(source string, count int) {
	m.BlockedSlots.WithLabelValues(source).Add(float64(count))
}

// Nop реализация без метрик (metrics.enabled = false)
type Nop struct{}

func (Nop) ExternalCalendarRequest(string, error) {}

func (Nop) ExternalCalendarFallback() {}

func (Nop) BlockedSlotsComputed(string, int) {}
