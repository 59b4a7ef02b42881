package mid

import (
	"net/http"
	"time"

	"github.com/WessleyAI/garage-mvp/pkg/metrics"
)

// Metrics returns middleware that records request latency into a
// per-method histogram on the registry.
func Metrics(reg *metrics.Registry) Middleware {
	durFor := func(method string) *metrics.Histogram {
		return reg.Histogram(
			metrics.WithLabels("http_request_duration_seconds", "method", method),
			"Request latency by method", nil)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			durFor(r.Method).Since(start)
		})
	}
}
