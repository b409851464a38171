package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BCschwifty/sys-API/internal/bus"
	"github.com/BCschwifty/sys-API/internal/cache"
	"github.com/BCschwifty/sys-API/internal/clock"
	"github.com/BCschwifty/sys-API/internal/models"
)

// brokenProvider fails the configured categories and serves canned data for
// the rest.
type brokenProvider struct {
	clock   clock.Clock
	failAll bool
	failMem bool
	ticks   uint64
}

var errHardware = errors.New("hardware gone")

func (p *brokenProvider) CPUCounters(ctx context.Context) (models.CounterSnapshot, error) {
	if p.failAll {
		return models.CounterSnapshot{}, errHardware
	}
	p.ticks += 100
	return models.CounterSnapshot{
		Total:     models.CPUTicks{User: p.ticks / 2, Idle: p.ticks / 2},
		SampledAt: p.clock.Now(),
	}, nil
}

func (p *brokenProvider) NetworkCounters(ctx context.Context) ([]models.InterfaceCounters, error) {
	if p.failAll {
		return nil, errHardware
	}
	return []models.InterfaceCounters{{Name: "eth0", SampledAt: p.clock.Now()}}, nil
}

func (p *brokenProvider) Memory(ctx context.Context) (*models.MemoryStatus, error) {
	if p.failAll || p.failMem {
		return nil, errHardware
	}
	return &models.MemoryStatus{UsedPercent: 40}, nil
}

func (p *brokenProvider) Disks(ctx context.Context) ([]models.DiskStatus, error) {
	if p.failAll {
		return nil, errHardware
	}
	return []models.DiskStatus{{Path: "/"}}, nil
}

func (p *brokenProvider) Sensors(ctx context.Context) (*models.SensorReadings, error) {
	return nil, errHardware
}

func (p *brokenProvider) LoadAverage(ctx context.Context) (*models.LoadAverage, error) {
	return nil, errHardware
}

func (p *brokenProvider) Processes(ctx context.Context) ([]models.ProcessStatus, error) {
	return nil, errHardware
}

func (p *brokenProvider) Host(ctx context.Context) (*models.HostInfo, error) {
	return &models.HostInfo{Hostname: "test"}, nil
}

func newTestDaemon(t *testing.T, p *brokenProvider) (*Daemon, *bus.Bus) {
	t.Helper()
	c := clock.NewManual(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	p.clock = c
	sampler := cache.NewSampler(p, nil, c, cache.Options{SampleDelay: time.Millisecond})
	b := bus.New()
	t.Cleanup(b.Close)
	return New(sampler, b, c, time.Second), b
}

func TestCollectIsolatesCategoryFailures(t *testing.T) {
	d, _ := newTestDaemon(t, &brokenProvider{failMem: true})

	load, err := d.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if load.Memory != nil {
		t.Error("failed category present in snapshot")
	}
	if load.CPU == nil || load.Disks == nil || load.Network == nil {
		t.Errorf("healthy categories missing from snapshot: %+v", load)
	}
}

func TestCollectFailsWhenAllCategoriesFail(t *testing.T) {
	d, _ := newTestDaemon(t, &brokenProvider{failAll: true})

	if _, err := d.Collect(context.Background()); !errors.Is(err, models.ErrAllMetricsFailed) {
		t.Fatalf("err = %v, want ErrAllMetricsFailed", err)
	}
}

func TestTickPublishesSnapshot(t *testing.T) {
	d, b := newTestDaemon(t, &brokenProvider{})
	sub := b.Subscribe(4)

	d.Tick(context.Background())

	select {
	case msg := <-sub.C:
		sampled, ok := msg.(bus.SystemLoadSampled)
		if !ok {
			t.Fatalf("got %T, want SystemLoadSampled", msg)
		}
		if sampled.Load.CPU == nil {
			t.Error("published snapshot missing CPU data")
		}
	case <-time.After(time.Second):
		t.Fatal("tick published nothing")
	}
}

func TestTickWithTotalFailurePublishesNothing(t *testing.T) {
	d, b := newTestDaemon(t, &brokenProvider{failAll: true})
	sub := b.Subscribe(4)

	d.Tick(context.Background())

	select {
	case msg := <-sub.C:
		t.Fatalf("unexpected publication %T", msg)
	case <-time.After(20 * time.Millisecond):
	}
}
