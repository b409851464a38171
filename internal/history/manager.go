package history

import (
	"context"
	"log"
	"time"

	"github.com/BCschwifty/sys-API/internal/bus"
)

// Manager subscribes the store to the event bus: every sampled snapshot is
// recorded and stale entries are purged in the same step, which keeps the
// store bounded at steady state.
type Manager struct {
	store     *Store
	bus       *bus.Bus
	retention time.Duration
	sub       *bus.Subscription
}

// NewManager wires a store to the bus with the given retention window.
func NewManager(store *Store, b *bus.Bus, retention time.Duration) *Manager {
	return &Manager{store: store, bus: b, retention: retention}
}

// Store exposes the underlying store for query surfaces.
func (m *Manager) Store() *Store {
	return m.store
}

// Start subscribes to the bus and consumes snapshots until ctx is cancelled
// or the bus closes.
func (m *Manager) Start(ctx context.Context) {
	m.sub = m.bus.Subscribe(16)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-m.sub.C:
				if !ok {
					return
				}
				sampled, ok := msg.(bus.SystemLoadSampled)
				if !ok {
					continue
				}
				m.store.Record(sampled.Load)
				m.store.Purge(m.retention)
			}
		}
	}()
	log.Printf("history manager started (retention: %v)", m.retention)
}

// Stop detaches the manager from the bus.
func (m *Manager) Stop() {
	if m.sub != nil {
		m.bus.Unsubscribe(m.sub)
	}
	log.Println("history manager stopped")
}
