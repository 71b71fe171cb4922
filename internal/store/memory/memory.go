// Package memory provides an in-memory implementation of store.Store for
// tests and local development. Maps are lost when the process exits.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alfredjeanlab/marketmaps/internal/model"
	"github.com/alfredjeanlab/marketmaps/internal/store"
)

// Store is an in-memory map store.
type Store struct {
	mu   sync.RWMutex
	maps map[string]*model.MarketMap
	now  func() time.Time
}

// Ensure Store implements store.Store at compile time.
var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		maps: make(map[string]*model.MarketMap),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// PutMap stores mapData under id, replacing any previous payload.
func (s *Store) PutMap(_ context.Context, id, mapData string) (*model.MarketMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	m, ok := s.maps[id]
	if ok {
		m.Overwrite(mapData, now)
	} else {
		m = model.NewMarketMap(id, mapData, now)
		s.maps[id] = m
	}
	return m.Clone(), nil
}

// GetMap returns a copy of the map stored under id.
func (s *Store) GetMap(_ context.Context, id string) (*model.MarketMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.maps[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return m.Clone(), nil
}

// Len returns the number of stored maps.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.maps)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
