// Package server implements the market map HTTP API.
package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/marketmaps/internal/events"
	"github.com/alfredjeanlab/marketmaps/internal/idgen"
	"github.com/alfredjeanlab/marketmaps/internal/observability"
	"github.com/alfredjeanlab/marketmaps/internal/store"
)

// DefaultMaxBodyBytes caps the size of a saved map payload.
const DefaultMaxBodyBytes int64 = 10 << 20

// Options tunes a MapsServer. Zero values select the defaults.
type Options struct {
	// IDLength is the length of generated map IDs.
	IDLength int
	// MaxBodyBytes is the largest accepted save payload.
	MaxBodyBytes int64
}

// MapsServer serves the save and load endpoints on top of a Store.
type MapsServer struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger

	idLength     int
	maxBodyBytes int64
}

// NewMapsServer returns a MapsServer backed by the given store and publisher.
// A nil logger falls back to slog.Default().
func NewMapsServer(s store.Store, p events.Publisher, logger *slog.Logger, opts Options) *MapsServer {
	if p == nil {
		p = &events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.IDLength <= 0 {
		opts.IDLength = idgen.Length
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &MapsServer{
		store:        s,
		publisher:    p,
		logger:       logger,
		idLength:     opts.IDLength,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// publishSaved announces a stored map on the event bus and counts it.
// Publishing is best-effort; failures are logged but never fail the save.
func (s *MapsServer) publishSaved(ctx context.Context, event events.MapSaved) {
	observability.RecordSave(event.Generated)
	if err := s.publisher.Publish(ctx, events.TopicMapSaved, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", events.TopicMapSaved, "id", event.ID, "error", err)
	}
}
