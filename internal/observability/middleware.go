package observability

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
)

// unmatchedRoute labels requests that no registered pattern matched, keeping
// label cardinality bounded.
const unmatchedRoute = "unmatched"

// MetricsMiddleware wraps a ServeMux-backed handler and records
// marketmaps_requests_total and marketmaps_request_duration_seconds.
// The route label is the ServeMux pattern without its method, so
// GET /api/maps/abc is recorded as /api/maps/{id}.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		route := routeLabel(r.Pattern)
		RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(m.Code)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(m.Duration.Seconds())
	})
}

func routeLabel(pattern string) string {
	if pattern == "" {
		return unmatchedRoute
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
