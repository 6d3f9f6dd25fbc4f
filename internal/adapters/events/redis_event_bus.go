package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
	"github.com/quakefeed/quakefeed/internal/domain/providers"
	redisclient "github.com/quakefeed/quakefeed/internal/infrastructure/clients/redis"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub.
// Running the broadcast channel over Redis keeps the contract intact when
// ingestion and streaming run in separate processes.
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	subscribers   map[string]map[chan *entities.QuakeUpdate]struct{}
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
	logger        zerolog.Logger
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client, logger zerolog.Logger) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string]map[chan *entities.QuakeUpdate]struct{}),
		ctx:           ctx,
		cancel:        cancel,
		logger:        logger.With().Str("component", "redis_event_bus").Logger(),
	}
}

// Publish publishes an update to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, update *entities.QuakeUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish update: %w", err)
	}

	b.logger.Debug().Str("channel", channel).Str("update_id", update.ID).Msg("published update")
	return nil
}

// Subscribe subscribes to updates on a channel
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.QuakeUpdate, error) {
	b.mu.Lock()

	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}

	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.QuakeUpdate]struct{})
	}

	updateChan := make(chan *entities.QuakeUpdate, 100)
	b.subscribers[channel][updateChan] = struct{}{}
	subscriberCount := len(b.subscribers[channel])
	b.mu.Unlock()

	b.logger.Debug().Str("channel", channel).Int("subscribers", subscriberCount).Msg("subscribed")

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, updateChan)
	}()

	return updateChan, nil
}

// receiveMessages receives messages from Redis and broadcasts them to subscribers
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	defer func() {
		if err := b.cleanupChannel(channel); err != nil {
			b.logger.Error().Err(err).Str("channel", channel).Msg("failed to cleanup channel")
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var update entities.QuakeUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				b.logger.Error().Err(err).Str("channel", channel).Msg("failed to unmarshal update")
				continue
			}

			b.mu.RLock()
			subscribers := b.subscribers[channel]
			for subscriber := range subscribers {
				select {
				case subscriber <- &update:
				default:
					// Subscriber channel full, skip update
					b.logger.Warn().Str("channel", channel).Str("update_id", update.ID).Msg("subscriber channel full, skipping update")
				}
			}
			b.mu.RUnlock()
		}
	}
}

func (b *RedisEventBus) removeSubscriber(channel string, updateChan chan *entities.QuakeUpdate) {
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
		if pubsub, ok := b.subscriptions[channel]; ok {
			_ = pubsub.Close()
			delete(b.subscriptions, channel)
			b.logger.Debug().Str("channel", channel).Msg("closed subscription")
		}
	}
}

func (b *RedisEventBus) cleanupChannel(channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if exists {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}

	if pubsub, ok := b.subscriptions[channel]; ok {
		if err := pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close subscription %s: %w", channel, err)
		}
		delete(b.subscriptions, channel)
	}

	return nil
}

// Unsubscribe unsubscribes from a channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	if err := b.cleanupChannel(channel); err != nil {
		return err
	}
	b.logger.Debug().Str("channel", channel).Msg("unsubscribed")
	return nil
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.RLock()
	channels := make([]string, 0, len(b.subscriptions))
	for channel := range b.subscriptions {
		channels = append(channels, channel)
	}
	b.mu.RUnlock()

	var errs []error
	for _, channel := range channels {
		if err := b.cleanupChannel(channel); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing event bus: %v", errs)
	}

	b.logger.Info().Msg("event bus closed")
	return nil
}
