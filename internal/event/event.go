// Package event carries explicit state-change notifications from the core
// components to whatever presentation layer is attached. Components publish,
// subscribers consume; publishing never blocks the publisher.
package event

import (
	"sync"
	"time"
)

// Type names an event kind.
type Type string

const (
	// FeedPageLoaded is published after a feed page merge completes.
	FeedPageLoaded Type = "feed.page_loaded"
	// ChatMessageAppended is published for every message appended to a
	// chat session, user- and persona-authored alike.
	ChatMessageAppended Type = "chat.message_appended"
)

// Event is a single notification scoped to one identity.
type Event struct {
	Type    Type
	UserID  uint
	At      time.Time
	Payload any
}

// Bus is an in-process publish/subscribe fanout. Slow subscribers drop
// events rather than stall the producing component.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a buffered listener. The returned cancel func must be
// called to release the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with room in its buffer.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
