// Package client provides a transport-agnostic interface for the market map
// service and an HTTP implementation that talks to its REST API.
package client

import (
	"context"
	"errors"
)

// ErrNotFound is returned by LoadMap when the server has no map under the ID.
var ErrNotFound = errors.New("map not found")

// MapsClient is the interface the mapctl commands use to talk to the server.
type MapsClient interface {
	// SaveMap stores mapData and returns the ID the server assigned.
	SaveMap(ctx context.Context, mapData []byte) (string, error)

	// LoadMap returns the raw payload stored under id, or ErrNotFound.
	LoadMap(ctx context.Context, id string) ([]byte, error)

	// Health returns the server's reported status.
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}
