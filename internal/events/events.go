package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	TopicMapSaved = "maps.map.saved"

	// TopicAll matches every map event.
	TopicAll = "maps.>"
)

// MapSaved is published after a map has been written.
type MapSaved struct {
	ID        string    `json:"id"`
	Size      int       `json:"size"`
	Generated bool      `json:"generated"` // true when the ID was generated rather than taken from the payload
	UpdatedAt time.Time `json:"updated_at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives raw event payloads from the event bus.
type Subscriber interface {
	// Subscribe delivers payloads for topic on the returned channel. Call the
	// returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
