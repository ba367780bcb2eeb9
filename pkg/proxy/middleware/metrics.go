package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder receives the outcome of each completed request.
// *metrics.Collector satisfies it.
type RequestRecorder interface {
	RecordRequest(statusCode int, seconds float64)
}

// MetricsMiddleware records the status code and duration of every request.
//
// Example usage:
//
//	handler = MetricsMiddleware(collector)(handler)
func MetricsMiddleware(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			recorder.RecordRequest(rw.statusCode, time.Since(start).Seconds())
		})
	}
}
