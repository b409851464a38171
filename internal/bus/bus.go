// Package bus is the process-wide publish/subscribe channel connecting the
// tick driver to the history store, monitor engine and external consumers.
// Delivery is in-process and best-effort: a subscriber registered after a
// publication does not see it, and a subscriber that cannot keep up drops
// messages rather than blocking the publisher.
package bus

import (
	"sync"

	"github.com/BCschwifty/sys-API/internal/models"
)

// SystemLoadSampled announces that a collection tick produced a snapshot.
type SystemLoadSampled struct {
	Load *models.SystemLoad
}

// MonitorStatusChanged announces a monitor status transition.
type MonitorStatusChanged struct {
	Event models.MonitorEvent
}

// Message is either SystemLoadSampled or MonitorStatusChanged.
type Message any

// Subscription is one registered consumer. Messages arrive on C until
// Unsubscribe closes it.
type Subscription struct {
	C  <-chan Message
	id int
	ch chan Message
}

// Bus fans published messages out to all current subscribers.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Message
	nextID int
	closed bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan Message)}
}

// Subscribe registers a consumer with the given channel buffer size.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Message, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return &Subscription{C: ch, id: -1, ch: ch}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	return &Subscription{C: ch, id: id, ch: ch}
}

// Unsubscribe removes the consumer and closes its channel.
func (b *Bus) Unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[s.id]; ok {
		delete(b.subs, s.id)
		close(ch)
	}
}

// Publish delivers msg to every subscriber. A full subscriber channel drops
// the message for that subscriber only.
func (b *Bus) Publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
