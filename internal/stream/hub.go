// Package stream pushes sampled snapshots and monitor events to WebSocket
// clients as they happen.
package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BCschwifty/sys-API/internal/bus"
)

// Message is the wire envelope sent to clients.
type Message struct {
	Type      string          `json:"type"` // "load" or "monitor_event"
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// client is one connected WebSocket consumer.
type client struct {
	id   int
	conn *websocket.Conn
	send chan Message
}

// Hub fans bus messages out to all connected clients.
type Hub struct {
	bus     *bus.Bus
	mu      sync.Mutex
	clients map[int]*client
	nextID  int
	sub     *bus.Subscription
}

// NewHub creates a hub over the given bus.
func NewHub(b *bus.Bus) *Hub {
	return &Hub{bus: b, clients: make(map[int]*client)}
}

// Start subscribes to the bus and relays until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	h.sub = h.bus.Subscribe(64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				h.closeAll()
				return
			case msg, ok := <-h.sub.C:
				if !ok {
					h.closeAll()
					return
				}
				h.relay(msg)
			}
		}
	}()
}

// Stop detaches the hub from the bus.
func (h *Hub) Stop() {
	if h.sub != nil {
		h.bus.Unsubscribe(h.sub)
	}
}

func (h *Hub) relay(msg bus.Message) {
	var out Message
	switch m := msg.(type) {
	case bus.SystemLoadSampled:
		data, err := json.Marshal(m.Load)
		if err != nil {
			log.Printf("ws: marshal load: %v", err)
			return
		}
		out = Message{Type: "load", Timestamp: m.Load.Timestamp, Data: data}
	case bus.MonitorStatusChanged:
		data, err := json.Marshal(m.Event)
		if err != nil {
			log.Printf("ws: marshal event: %v", err)
			return
		}
		out = Message{Type: "monitor_event", Timestamp: m.Event.Time, Data: data}
	default:
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- out:
		default:
			// Client cannot keep up; drop this message for it.
		}
	}
}

// Attach registers a connection and starts its writer pump. The caller keeps
// ownership of reads (for close detection).
func (h *Hub) Attach(conn *websocket.Conn) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	c := &client{id: id, conn: conn, send: make(chan Message, 32)}
	h.clients[id] = c
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("ws: client %d connected (total: %d)", id, total)

	go func() {
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	return func() { h.detach(id) }
}

func (h *Hub) detach(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
		log.Printf("ws: client %d disconnected (total: %d)", id, len(h.clients))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
		_ = c.conn.Close()
	}
}
