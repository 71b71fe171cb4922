package model

import "time"

// MarketMap is a stored map document. MapData is opaque to the service; it is
// stored and returned byte-for-byte.
type MarketMap struct {
	ID        string    `json:"id"`
	MapData   string    `json:"mapData"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewMarketMap returns a map stamped with now for both timestamps.
func NewMarketMap(id, mapData string, now time.Time) *MarketMap {
	return &MarketMap{
		ID:        id,
		MapData:   mapData,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Overwrite replaces the payload of an existing map, keeping its creation
// time and bumping UpdatedAt.
func (m *MarketMap) Overwrite(mapData string, now time.Time) {
	m.MapData = mapData
	m.UpdatedAt = now
}

// Clone returns a copy of the map.
func (m *MarketMap) Clone() *MarketMap {
	c := *m
	return &c
}
