package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
	"github.com/quakefeed/quakefeed/internal/domain/providers"
)

func TestMemoryEventBus_DeliversToSubscribedChannelOnly(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()
	ctx := context.Background()

	chanA := providers.GetSessionChannel("session-a")
	chanB := providers.GetSessionChannel("session-b")

	subA, err := bus.Subscribe(ctx, chanA)
	require.NoError(t, err)
	subB, err := bus.Subscribe(ctx, chanB)
	require.NoError(t, err)

	update := entities.NewQuakeUpdate("session-a", nil)
	require.NoError(t, bus.Publish(ctx, chanA, update))

	select {
	case got := <-subA:
		assert.Equal(t, update.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive update")
	}

	select {
	case got := <-subB:
		t.Fatalf("unexpected delivery to other session: %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryEventBus_ContextCancelClosesSubscription(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := bus.Subscribe(ctx, "session:x")
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-sub:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed on cancel")
	}
}

func TestMemoryEventBus_PublishToChannelWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	err := bus.Publish(context.Background(), "session:gone", entities.NewQuakeUpdate("gone", nil))
	assert.NoError(t, err)
}

func TestMemoryEventBus_CloseClosesAllSubscriptions(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx := context.Background()

	sub, err := bus.Subscribe(ctx, "session:y")
	require.NoError(t, err)

	require.NoError(t, bus.Close())

	select {
	case _, open := <-sub:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed on bus close")
	}
}
