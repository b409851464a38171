// Package daemon drives the periodic collection tick: it pulls every metric
// category through the sampled-metrics cache, assembles one SystemLoad
// snapshot and publishes it on the event bus. Per-category failures are
// isolated; the snapshot simply omits the failed field.
package daemon

import (
	"context"
	"log"
	"time"

	"github.com/BCschwifty/sys-API/internal/bus"
	"github.com/BCschwifty/sys-API/internal/cache"
	"github.com/BCschwifty/sys-API/internal/clock"
	"github.com/BCschwifty/sys-API/internal/models"
)

// Daemon is the tick driver.
type Daemon struct {
	sampler  *cache.Sampler
	bus      *bus.Bus
	clock    clock.Clock
	interval time.Duration
}

// New creates a daemon ticking at the given interval.
func New(s *cache.Sampler, b *bus.Bus, c clock.Clock, interval time.Duration) *Daemon {
	if c == nil {
		c = clock.System()
	}
	return &Daemon{sampler: s, bus: b, clock: c, interval: interval}
}

// Run collects once immediately, then on every tick until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) {
	log.Printf("collection daemon started (interval: %v)", d.interval)

	d.Tick(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("collection daemon stopped")
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick performs one collection cycle. The snapshot is published even when
// only some categories succeeded; a tick where everything failed publishes
// nothing.
func (d *Daemon) Tick(ctx context.Context) {
	load, err := d.Collect(ctx)
	if err != nil {
		log.Printf("collection tick skipped: %v", err)
		return
	}
	d.bus.Publish(bus.SystemLoadSampled{Load: load})
}

// Collect pulls all categories through the cache and builds the snapshot.
// Returns models.ErrAllMetricsFailed when not a single category produced data.
func (d *Daemon) Collect(ctx context.Context) (*models.SystemLoad, error) {
	load := &models.SystemLoad{Timestamp: d.clock.Now()}

	if cpu, err := d.sampler.CPU(ctx); err != nil {
		log.Printf("cpu collection failed: %v", err)
	} else {
		load.CPU = cpu
	}

	if memory, err := d.sampler.Memory(ctx); err != nil {
		log.Printf("memory collection failed: %v", err)
	} else {
		load.Memory = memory
	}

	if disks, err := d.sampler.Disks(ctx); err != nil {
		log.Printf("disk collection failed: %v", err)
	} else {
		load.Disks = disks
	}

	if network, err := d.sampler.Network(ctx); err != nil {
		log.Printf("network collection failed: %v", err)
	} else {
		load.Network = network
	}

	// Sensor support is absent on many hosts; stay quiet on failure.
	if sensors, err := d.sampler.Sensors(ctx); err == nil {
		load.Sensors = sensors
	}

	if avg, err := d.sampler.LoadAverage(ctx); err == nil {
		load.LoadAverage = avg
	}

	if conn, err := d.sampler.Connectivity(ctx); err == nil {
		load.Connectivity = conn
	}

	if load.CPU == nil && load.Memory == nil && load.Disks == nil &&
		load.Network == nil && load.Sensors == nil {
		return nil, models.ErrAllMetricsFailed
	}
	return load, nil
}
