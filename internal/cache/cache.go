// Package cache memoizes hardware collection calls per metric category with
// independent TTLs. Hardware queries can be slow (the CPU path deliberately
// waits to build a valid sampling window), so concurrent callers for the
// same expired category are collapsed into a single in-flight collection
// that all of them share.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/BCschwifty/sys-API/internal/clock"
	"github.com/BCschwifty/sys-API/internal/models"
	"github.com/BCschwifty/sys-API/internal/provider"
	"github.com/BCschwifty/sys-API/internal/rate"
	"github.com/BCschwifty/sys-API/internal/telemetry"
)

// Category names one independently cached metric class.
type Category string

const (
	CategoryCPU          Category = "cpu"
	CategoryMemory       Category = "memory"
	CategoryDisk         Category = "disk"
	CategoryNetwork      Category = "network"
	CategorySensors      Category = "sensors"
	CategoryLoadAverage  Category = "loadavg"
	CategoryProcesses    Category = "processes"
	CategoryConnectivity Category = "connectivity"
)

// ConnectivityChecker is the probe the connectivity category delegates to.
type ConnectivityChecker interface {
	Check(ctx context.Context) ([]models.ConnectivityStatus, error)
}

// Options configures a Sampler. Zero fields fall back to defaults.
type Options struct {
	// DefaultTTL applies to categories without an explicit TTL.
	DefaultTTL time.Duration
	// TTLs overrides the TTL per category.
	TTLs map[Category]time.Duration
	// MaxSampleAge is how old a previous CPU counter snapshot may be and
	// still anchor a delta; older snapshots are discarded and resampled.
	MaxSampleAge time.Duration
	// SampleDelay is the enforced wait between the two CPU snapshots of a
	// fresh sampling window.
	SampleDelay time.Duration
	// CollectTimeout bounds every underlying collection call.
	CollectTimeout time.Duration
}

func (o *Options) fill() {
	if o.DefaultTTL <= 0 {
		o.DefaultTTL = time.Second
	}
	if o.MaxSampleAge <= 0 {
		o.MaxSampleAge = 10 * time.Second
	}
	if o.SampleDelay <= 0 {
		o.SampleDelay = 900 * time.Millisecond
	}
	if o.CollectTimeout <= 0 {
		o.CollectTimeout = 10 * time.Second
	}
}

type entry struct {
	value      any
	computedAt time.Time
}

// Sampler wraps the hardware provider with per-category memoization. It also
// owns the previous-sample state the rate computations need, so that state
// lives behind one component instead of floating in globals.
type Sampler struct {
	provider provider.HardwareProvider
	checker  ConnectivityChecker
	clock    clock.Clock
	opts     Options

	mu      sync.RWMutex
	entries map[Category]entry

	// prevCPU anchors the next CPU delta. Guarded by mu; only the single
	// in-flight CPU refresh writes it.
	prevCPU models.CounterSnapshot
	// prevNet holds the last counters per interface name, plus the
	// aggregate under the empty key.
	prevNet map[string]models.InterfaceCounters

	group singleflight.Group
}

// NewSampler creates a sampler over the given provider. checker may be nil,
// in which case the connectivity category reports unavailable.
func NewSampler(p provider.HardwareProvider, checker ConnectivityChecker, c clock.Clock, opts Options) *Sampler {
	if c == nil {
		c = clock.System()
	}
	opts.fill()
	return &Sampler{
		provider: p,
		checker:  checker,
		clock:    c,
		opts:     opts,
		entries:  make(map[Category]entry),
		prevNet:  make(map[string]models.InterfaceCounters),
	}
}

// ttl returns the effective TTL for a category.
func (s *Sampler) ttl(cat Category) time.Duration {
	if d, ok := s.opts.TTLs[cat]; ok && d > 0 {
		return d
	}
	return s.opts.DefaultTTL
}

// Invalidate drops the cached entry for a category.
func (s *Sampler) Invalidate(cat Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, cat)
}

// get returns the live cached value for cat or refreshes it via collect.
// Concurrent callers against an expired entry share one collection call; a
// failed collection surfaces its error to every waiter and leaves the cache
// entry untouched, so the next call retries.
func (s *Sampler) get(ctx context.Context, cat Category, collect func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := s.lookup(cat); ok {
		telemetry.CacheLookupsTotal.WithLabelValues(string(cat), "hit").Inc()
		return v, nil
	}
	telemetry.CacheLookupsTotal.WithLabelValues(string(cat), "miss").Inc()

	v, err, _ := s.group.Do(string(cat), func() (any, error) {
		// A waiter that piled up behind the refresh may find the entry
		// already fresh.
		if v, ok := s.lookup(cat); ok {
			return v, nil
		}

		start := s.clock.Now()
		cctx, cancel := context.WithTimeout(ctx, s.opts.CollectTimeout)
		defer cancel()

		v, err := collect(cctx)
		telemetry.CollectionDuration.WithLabelValues(string(cat)).Observe(s.clock.Now().Sub(start).Seconds())
		if err != nil {
			telemetry.CollectionsTotal.WithLabelValues(string(cat), "error").Inc()
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s: %w", cat, models.ErrCollectionTimeout)
			}
			return nil, err
		}
		telemetry.CollectionsTotal.WithLabelValues(string(cat), "ok").Inc()

		s.mu.Lock()
		s.entries[cat] = entry{value: v, computedAt: s.clock.Now()}
		s.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Sampler) lookup(cat Category) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[cat]
	if !ok {
		return nil, false
	}
	if s.clock.Now().Sub(e.computedAt) > s.ttl(cat) {
		return nil, false
	}
	return e.value, true
}

// CPU returns the cached CPU load, refreshing it from a counter delta when
// expired. When the previous snapshot is missing or older than the maximum
// sampling age it is discarded and a fresh bounded window is built: capture,
// wait SampleDelay, capture again.
func (s *Sampler) CPU(ctx context.Context) (*models.CPULoad, error) {
	v, err := s.get(ctx, CategoryCPU, s.collectCPU)
	if err != nil {
		return nil, err
	}
	return v.(*models.CPULoad), nil
}

func (s *Sampler) collectCPU(ctx context.Context) (any, error) {
	s.mu.RLock()
	prev := s.prevCPU
	s.mu.RUnlock()

	if prev.Zero() || s.clock.Now().Sub(prev.SampledAt) > s.opts.MaxSampleAge {
		first, err := s.provider.CPUCounters(ctx)
		if err != nil {
			return nil, err
		}
		if err := sleepCtx(ctx, s.opts.SampleDelay); err != nil {
			return nil, err
		}
		prev = first
	}

	cur, err := s.provider.CPUCounters(ctx)
	if err != nil {
		return nil, err
	}

	load, err := rate.ComputeCPULoad(prev, cur)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.prevCPU = cur
	s.mu.Unlock()
	return load, nil
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Network returns cached per-interface and aggregate throughput. The first
// query after startup reports zero rates for every interface.
func (s *Sampler) Network(ctx context.Context) (*models.NetworkStatus, error) {
	v, err := s.get(ctx, CategoryNetwork, s.collectNetwork)
	if err != nil {
		return nil, err
	}
	return v.(*models.NetworkStatus), nil
}

func (s *Sampler) collectNetwork(ctx context.Context) (any, error) {
	counters, err := s.provider.NetworkCounters(ctx)
	if err != nil {
		return nil, err
	}

	aggregate := models.InterfaceCounters{SampledAt: s.clock.Now()}
	status := &models.NetworkStatus{}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range counters {
		speed := rate.ComputeNetworkSpeed(s.prevNet[c.Name], c)
		s.prevNet[c.Name] = c
		status.Interfaces = append(status.Interfaces, models.InterfaceLoad{Counters: c, Speed: speed})

		aggregate.BytesSent += c.BytesSent
		aggregate.BytesRecv += c.BytesRecv
		aggregate.PacketsSent += c.PacketsSent
		aggregate.PacketsRecv += c.PacketsRecv
	}
	status.Aggregate = rate.ComputeNetworkSpeed(s.prevNet[""], aggregate)
	s.prevNet[""] = aggregate
	return status, nil
}

// Memory returns the cached memory status.
func (s *Sampler) Memory(ctx context.Context) (*models.MemoryStatus, error) {
	v, err := s.get(ctx, CategoryMemory, func(ctx context.Context) (any, error) {
		return s.provider.Memory(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.MemoryStatus), nil
}

// Disks returns the cached filesystem usage list.
func (s *Sampler) Disks(ctx context.Context) ([]models.DiskStatus, error) {
	v, err := s.get(ctx, CategoryDisk, func(ctx context.Context) (any, error) {
		return s.provider.Disks(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.DiskStatus), nil
}

// Sensors returns the cached sensor readings.
func (s *Sampler) Sensors(ctx context.Context) (*models.SensorReadings, error) {
	v, err := s.get(ctx, CategorySensors, func(ctx context.Context) (any, error) {
		return s.provider.Sensors(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.SensorReadings), nil
}

// LoadAverage returns the cached run-queue averages.
func (s *Sampler) LoadAverage(ctx context.Context) (*models.LoadAverage, error) {
	v, err := s.get(ctx, CategoryLoadAverage, func(ctx context.Context) (any, error) {
		return s.provider.LoadAverage(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.LoadAverage), nil
}

// Processes returns the cached process list.
func (s *Sampler) Processes(ctx context.Context) ([]models.ProcessStatus, error) {
	v, err := s.get(ctx, CategoryProcesses, func(ctx context.Context) (any, error) {
		return s.provider.Processes(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ProcessStatus), nil
}

// Connectivity returns the cached external reachability probes.
func (s *Sampler) Connectivity(ctx context.Context) ([]models.ConnectivityStatus, error) {
	if s.checker == nil {
		return nil, fmt.Errorf("connectivity: no checker configured: %w", models.ErrMetricUnavailable)
	}
	v, err := s.get(ctx, CategoryConnectivity, func(ctx context.Context) (any, error) {
		return s.checker.Check(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ConnectivityStatus), nil
}

// Host returns the host description, uncached (it is cheap and near-static).
func (s *Sampler) Host(ctx context.Context) (*models.HostInfo, error) {
	return s.provider.Host(ctx)
}
