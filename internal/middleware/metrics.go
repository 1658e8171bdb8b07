package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/telbook/telbook/internal/telemetry"
)

// Metrics records per-request counters and latency on the given instrument
// set. The route label uses the chi route pattern rather than the raw path so
// that /contacts/1/ and /contacts/2/ aggregate into one series.
func Metrics(metrics *telemetry.ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.ActiveConnections.Add(r.Context(), 1)
			defer metrics.ActiveConnections.Add(r.Context(), -1)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			metrics.RecordRequest(r.Context(), r.Method, route, ww.Status(),
				float64(time.Since(start).Microseconds())/1000)
		})
	}
}
