package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/marketmaps/internal/model"
)

// ErrNotFound is returned by GetMap when no map is stored under the ID.
var ErrNotFound = errors.New("map not found")

// Store defines the persistence interface for market maps.
type Store interface {
	// PutMap inserts or replaces the map stored under id. On replace, the
	// original CreatedAt is kept and UpdatedAt is set to the write time.
	PutMap(ctx context.Context, id, mapData string) (*model.MarketMap, error)

	// GetMap returns the map stored under id, or ErrNotFound.
	GetMap(ctx context.Context, id string) (*model.MarketMap, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's connections.
	Close() error
}
