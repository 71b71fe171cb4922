// Package observability provides Prometheus metrics and HTTP middleware
// for the market map service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// ID sources for MapsSavedTotal.
const (
	SourceFilename  = "filename"
	SourceGenerated = "generated"
)

var (
	// RequestsTotal counts HTTP requests by method, matched route and status code.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketmaps_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketmaps_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// MapsSavedTotal counts successful saves by where the id came from.
	MapsSavedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketmaps_maps_saved_total",
			Help: "Maps saved",
		},
		[]string{"id_source"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		MapsSavedTotal,
	)
}

// RecordSave increments MapsSavedTotal for a save whose id was generated
// or taken from the payload.
func RecordSave(generated bool) {
	source := SourceFilename
	if generated {
		source = SourceGenerated
	}
	MapsSavedTotal.WithLabelValues(source).Inc()
}
