package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(4)
	defer cancel()

	bus.Publish(Event{Type: FeedPageLoaded, UserID: 1})

	select {
	case got := <-ch:
		assert.Equal(t, FeedPageLoaded, got.Type)
		assert.Equal(t, uint(1), got.UserID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	// Publish must never block, even with a saturated subscriber.
	bus.Publish(Event{Type: ChatMessageAppended, UserID: 1})
	bus.Publish(Event{Type: ChatMessageAppended, UserID: 2})

	got := <-ch
	require.Equal(t, uint(1), got.UserID)
	select {
	case unexpected := <-ch:
		t.Fatalf("expected second event to be dropped, got %+v", unexpected)
	default:
	}
}

func TestBusCancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)

	cancel()
	bus.Publish(Event{Type: FeedPageLoaded, UserID: 1})

	select {
	case _, open := <-ch:
		assert.False(t, open)
	default:
	}
}
