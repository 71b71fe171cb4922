package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alfredjeanlab/marketmaps/internal/observability"
)

// NewHTTPHandler returns an http.Handler with all routes registered and the
// middleware stack applied.
func (s *MapsServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/maps", s.handleSaveMap)
	mux.HandleFunc("GET /api/maps/{id}", s.handleLoadMap)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = observability.MetricsMiddleware(mux)
	h = corsMiddleware(h)
	h = recoveryMiddleware(s.logger, h)
	return loggingMiddleware(s.logger, h)
}

// handleHealth handles GET /health.
func (s *MapsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("store ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeText writes a plain text response with the given status code.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// writeError writes a plain text error response. The map endpoints speak
// text/plain, so their errors do too.
func writeError(w http.ResponseWriter, status int, message string) {
	writeText(w, status, message)
}
