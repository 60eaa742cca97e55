package httpx

import (
	"net/http"
	"time"

	"bookshop/internal/metrics"
)

// MetricsMiddleware records per-request duration and status.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			m.ObserveHTTP(r.Method, rw.statusCode, time.Since(start))
		})
	}
}
