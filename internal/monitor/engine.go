// Package monitor evaluates user-defined threshold rules against each
// sampled snapshot and emits debounced status-change events. A condition
// must hold for the monitor's inertia duration before an alert fires, so a
// single noisy sample never raises an event; recovery is reported exactly
// once per alert episode.
package monitor

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BCschwifty/sys-API/internal/bus"
	"github.com/BCschwifty/sys-API/internal/clock"
	"github.com/BCschwifty/sys-API/internal/models"
	"github.com/BCschwifty/sys-API/internal/telemetry"
)

// state is the engine-held view of one monitor. conditionSince is set when
// the condition starts holding and cleared the moment it stops.
type state struct {
	models.Monitor
	conditionSince *time.Time
}

// Engine owns all monitor instances. Evaluation runs once per tick from a
// single goroutine; reads may happen concurrently from other goroutines.
type Engine struct {
	mu             sync.RWMutex
	clock          clock.Clock
	bus            *bus.Bus
	defaultInertia time.Duration
	monitors       map[uuid.UUID]*state
	events         []models.MonitorEvent
	sub            *bus.Subscription
}

// New creates an engine publishing events on b.
func New(c clock.Clock, b *bus.Bus, defaultInertia time.Duration) *Engine {
	if c == nil {
		c = clock.System()
	}
	return &Engine{
		clock:          c,
		bus:            b,
		defaultInertia: defaultInertia,
		monitors:       make(map[uuid.UUID]*state),
	}
}

// Create validates the spec, registers a monitor starting at OK and returns
// its generated id. Invalid specs are rejected synchronously and never enter
// engine state.
func (e *Engine) Create(spec models.CreateMonitor) (uuid.UUID, error) {
	if !spec.Type.Valid() {
		return uuid.Nil, fmt.Errorf("unknown type %q: %w", spec.Type, models.ErrInvalidMonitorSpec)
	}
	if math.IsNaN(spec.Threshold) || math.IsInf(spec.Threshold, 0) {
		return uuid.Nil, fmt.Errorf("threshold must be finite: %w", models.ErrInvalidMonitorSpec)
	}
	if spec.InertiaSeconds < 0 {
		return uuid.Nil, fmt.Errorf("negative inertia: %w", models.ErrInvalidMonitorSpec)
	}

	inertia := time.Duration(spec.InertiaSeconds) * time.Second
	if spec.InertiaSeconds == 0 {
		inertia = e.defaultInertia
	}

	m := &state{Monitor: models.Monitor{
		ID:        uuid.New(),
		TargetID:  spec.TargetID,
		Type:      spec.Type,
		Threshold: spec.Threshold,
		Inertia:   inertia,
		Status:    models.StatusOK,
	}}

	e.mu.Lock()
	e.monitors[m.ID] = m
	telemetry.MonitorsActive.Set(float64(len(e.monitors)))
	e.mu.Unlock()

	log.Printf("monitor created: %s %s threshold=%v inertia=%v", m.ID, m.Type, m.Threshold, m.Inertia)
	return m.ID, nil
}

// Delete removes a monitor and discards all engine-held state for it. No
// further events fire for the id, including no synthetic recovery.
func (e *Engine) Delete(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.monitors[id]; !ok {
		return fmt.Errorf("monitor %s not found", id)
	}
	delete(e.monitors, id)
	telemetry.MonitorsActive.Set(float64(len(e.monitors)))
	return nil
}

// List returns a copy of all registered monitors, ordered by id.
func (e *Engine) List() []models.Monitor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Monitor, 0, len(e.monitors))
	for _, m := range e.monitors {
		out = append(out, m.Monitor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// Get returns a copy of one monitor.
func (e *Engine) Get(id uuid.UUID) (models.Monitor, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, ok := e.monitors[id]
	if !ok {
		return models.Monitor{}, false
	}
	return m.Monitor, true
}

// Events returns the recorded status-change events, oldest first, optionally
// filtered to one monitor id.
func (e *Engine) Events(monitorID *uuid.UUID) []models.MonitorEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.MonitorEvent, 0, len(e.events))
	for _, ev := range e.events {
		if monitorID != nil && ev.MonitorID != *monitorID {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Evaluate runs one tick over all monitors against the given snapshot.
// A monitor whose metric is absent from the snapshot is skipped unchanged;
// absence of data never causes a transition.
func (e *Engine) Evaluate(load *models.SystemLoad) {
	if load == nil {
		return
	}
	now := e.clock.Now()

	e.mu.Lock()
	var emitted []models.MonitorEvent
	for _, m := range e.monitors {
		value, ok := resolveValue(load, &m.Monitor)
		if !ok {
			continue
		}
		if ev := e.step(m, value, now); ev != nil {
			e.events = append(e.events, *ev)
			emitted = append(emitted, *ev)
		}
	}
	e.mu.Unlock()

	// Publish outside the lock so a slow bus never stalls state reads.
	for _, ev := range emitted {
		telemetry.MonitorEventsTotal.WithLabelValues(string(ev.Type), string(ev.Status)).Inc()
		if e.bus != nil {
			e.bus.Publish(bus.MonitorStatusChanged{Event: ev})
		}
	}
}

// step advances one monitor's state machine and returns the event to emit,
// if any. Only ARMED→ALERT and ALERT→OK are externally visible; arming and
// an ARMED→OK release are silent because no sustained breach ever surfaced.
func (e *Engine) step(m *state, value float64, now time.Time) *models.MonitorEvent {
	holds := m.Type.Direction().Holds(value, m.Threshold)

	switch m.Status {
	case models.StatusOK:
		if holds {
			m.Status = models.StatusArmed
			since := now
			m.conditionSince = &since
		}

	case models.StatusArmed:
		if !holds {
			m.Status = models.StatusOK
			m.conditionSince = nil
			break
		}
		if m.conditionSince != nil && now.Sub(*m.conditionSince) >= m.Inertia {
			m.Status = models.StatusAlert
			m.conditionSince = nil
			return e.newEvent(m, value, now)
		}

	case models.StatusAlert:
		if !holds {
			m.Status = models.StatusOK
			m.conditionSince = nil
			return e.newEvent(m, value, now)
		}
	}
	return nil
}

func (e *Engine) newEvent(m *state, value float64, now time.Time) *models.MonitorEvent {
	return &models.MonitorEvent{
		ID:            uuid.New(),
		MonitorID:     m.ID,
		Time:          now,
		Type:          m.Type,
		Status:        m.Status,
		Threshold:     m.Threshold,
		ObservedValue: value,
	}
}

// Start subscribes the engine to sampled snapshots on the bus.
func (e *Engine) Start(ctx context.Context) {
	e.sub = e.bus.Subscribe(16)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-e.sub.C:
				if !ok {
					return
				}
				if sampled, ok := msg.(bus.SystemLoadSampled); ok {
					e.Evaluate(sampled.Load)
				}
			}
		}
	}()
	log.Printf("monitor engine started (default inertia: %v)", e.defaultInertia)
}

// Stop detaches the engine from the bus.
func (e *Engine) Stop() {
	if e.sub != nil {
		e.bus.Unsubscribe(e.sub)
	}
	log.Println("monitor engine stopped")
}
