// Package history keeps a bounded, time-ordered, in-memory log of system
// load snapshots. Nothing is persisted; a restart starts empty.
package history

import (
	"sync"
	"time"

	"github.com/BCschwifty/sys-API/internal/clock"
	"github.com/BCschwifty/sys-API/internal/models"
	"github.com/BCschwifty/sys-API/internal/telemetry"
)

// Entry is one recorded snapshot.
type Entry struct {
	Date time.Time          `json:"date"`
	Load *models.SystemLoad `json:"load"`
}

// Store is the append-only snapshot log. Record and Purge are called from a
// single producer (the tick driver); Query may run concurrently from reader
// goroutines and always observes a consistent copy.
type Store struct {
	mu      sync.RWMutex
	clock   clock.Clock
	entries []Entry
}

// NewStore creates an empty store using the given clock.
func NewStore(c clock.Clock) *Store {
	if c == nil {
		c = clock.System()
	}
	return &Store{clock: c}
}

// Record appends a snapshot stamped with the current time. Calls are assumed
// to arrive in non-decreasing time order.
func (s *Store) Record(load *models.SystemLoad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Date: s.clock.Now(), Load: load})
	telemetry.HistoryEntries.Set(float64(len(s.entries)))
}

// Purge drops every entry older than the retention duration. Entries are
// time-ordered, so only a prefix is ever removed.
func (s *Store) Purge(retention time.Duration) {
	cutoff := s.clock.Now().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()
	keep := 0
	for keep < len(s.entries) && s.entries[keep].Date.Before(cutoff) {
		keep++
	}
	if keep > 0 {
		s.entries = append([]Entry(nil), s.entries[keep:]...)
	}
	telemetry.HistoryEntries.Set(float64(len(s.entries)))
}

// Query returns entries strictly after from and strictly before to. A zero
// bound means unbounded on that side. The result is a copy.
func (s *Store) Query(from, to time.Time) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !from.IsZero() && !e.Date.After(from) {
			continue
		}
		if !to.IsZero() && !e.Date.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// All returns a copy of every entry.
func (s *Store) All() []Entry {
	return s.Query(time.Time{}, time.Time{})
}

// Len returns the current entry count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
