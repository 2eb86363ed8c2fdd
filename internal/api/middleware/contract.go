package middleware

import "time"

// HTTPMetrics приемник HTTP метрик
type HTTPMetrics interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

type Logger interface {
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
