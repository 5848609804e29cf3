package middleware

import (
	"net/http"
	"time"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/telemetry/metrics"
)

// MetricsMiddleware records request count and latency for one route. The
// route label is fixed per wrapped handler so path tokens never leak into
// metric cardinality.
func MetricsMiddleware(collector *metrics.Collector, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			collector.RecordRequest(route, rw.statusCode, time.Since(start))
		})
	}
}
