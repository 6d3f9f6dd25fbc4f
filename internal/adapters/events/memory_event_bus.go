package events

import (
	"context"
	"sync"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
	"github.com/quakefeed/quakefeed/internal/domain/providers"
)

// MemoryEventBus implements EventBus in process memory. Used by tests and by
// dev mode when no Redis is configured; single-process only.
type MemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.QuakeUpdate]struct{}
	closed      bool
}

// NewMemoryEventBus creates an in-process event bus.
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{
		subscribers: make(map[string]map[chan *entities.QuakeUpdate]struct{}),
	}
}

// Publish delivers the update to current subscribers of the channel. A
// subscriber whose buffer is full misses the update rather than blocking the
// publisher; the next cycle's snapshot supersedes it anyway.
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, update *entities.QuakeUpdate) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- update:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber channel, removed when ctx is cancelled.
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.QuakeUpdate, error) {
	b.mu.Lock()
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.QuakeUpdate]struct{})
	}
	updateChan := make(chan *entities.QuakeUpdate, 100)
	b.subscribers[channel][updateChan] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, updateChan)
	}()

	return updateChan, nil
}

// Unsubscribe drops every subscriber of the channel.
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close shuts down the bus and all subscriptions.
func (b *MemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	return nil
}

func (b *MemoryEventBus) removeSubscriber(channel string, updateChan chan *entities.QuakeUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if !exists {
		return
	}
	if _, ok := subscribers[updateChan]; !ok {
		return
	}

	delete(subscribers, updateChan)
	close(updateChan)
	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
	}
}

var _ providers.EventBus = (*MemoryEventBus)(nil)
