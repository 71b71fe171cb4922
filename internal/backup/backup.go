// Package backup mirrors saved maps to secondary destinations.
//
// A Replicator listens for map-saved events on the event bus, reads the
// current payload from the primary store and writes it to every configured
// Destination. Replication is best-effort: a failed write is logged and the
// next save of the same ID overwrites it.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/marketmaps/internal/events"
	"github.com/alfredjeanlab/marketmaps/internal/store"
)

// Destination is the interface for a backup target (S3, git, etc.).
type Destination interface {
	// Write stores the payload of map id, replacing any previous copy.
	Write(ctx context.Context, id string, data []byte) error
	// Name identifies the destination in logs.
	Name() string
}

// Replicator copies maps to destinations as they are saved.
type Replicator struct {
	store        store.Store
	sub          events.Subscriber
	destinations []Destination
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReplicator creates a replicator fed by sub that reads from s.
func NewReplicator(s store.Store, sub events.Subscriber, destinations []Destination, logger *slog.Logger) *Replicator {
	return &Replicator{
		store:        s,
		sub:          sub,
		destinations: destinations,
		logger:       logger,
	}
}

// Start subscribes to map-saved events and replicates in the background.
func (r *Replicator) Start() error {
	ch, unsubscribe, err := r.sub.Subscribe(events.TopicMapSaved)
	if err != nil {
		return fmt.Errorf("backup: subscribe: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer unsubscribe()
		r.run(ctx, ch)
	}()
	return nil
}

// Stop cancels the replicator and waits for the current copy (if any) to finish.
func (r *Replicator) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Replicator) run(ctx context.Context, ch <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-ch:
			if !ok {
				return
			}
			var event events.MapSaved
			if err := json.Unmarshal(raw, &event); err != nil || event.ID == "" {
				r.logger.Warn("backup: bad event payload", "err", err)
				continue
			}
			r.Replicate(ctx, event.ID)
		}
	}
}

// Replicate copies the current payload of id to every destination.
func (r *Replicator) Replicate(ctx context.Context, id string) {
	m, err := r.store.GetMap(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		r.logger.Warn("backup: map vanished before replication", "id", id)
		return
	}
	if err != nil {
		r.logger.Error("backup: read failed", "id", id, "err", err)
		return
	}

	data := []byte(m.MapData)
	for _, dest := range r.destinations {
		if err := dest.Write(ctx, id, data); err != nil {
			r.logger.Error("backup: destination write failed", "destination", dest.Name(), "id", id, "err", err)
			continue
		}
		r.logger.Debug("backup: replicated", "destination", dest.Name(), "id", id, "bytes", len(data))
	}
}
