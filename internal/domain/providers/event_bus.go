package providers

import (
	"context"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
)

// EventBus delivers snapshot updates to subscriber sessions.
type EventBus interface {
	// Publish publishes an update to all subscribers of a channel.
	Publish(ctx context.Context, channel string, update *entities.QuakeUpdate) error

	// Subscribe subscribes to updates on a channel. The returned channel is
	// closed when ctx is cancelled or the bus shuts down.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.QuakeUpdate, error)

	// Unsubscribe tears down a channel's subscription.
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions.
	Close() error
}

// EventChannelSessionPrefix is the prefix for per-session channels. Each
// ingestion cycle broadcasts to the originating session only.
const EventChannelSessionPrefix = "session:"

// GetSessionChannel returns the bus channel name for one subscriber session.
func GetSessionChannel(sessionID string) string {
	return EventChannelSessionPrefix + sessionID
}
