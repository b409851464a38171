// Package connectivity probes external targets so reachability and latency
// can be sampled, cached and monitored like any other metric category.
package connectivity

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/BCschwifty/sys-API/internal/models"
)

const (
	defaultCount   = 3
	defaultTimeout = 3 * time.Second
)

// Checker pings a fixed set of targets.
type Checker struct {
	targets []string
	count   int
	timeout time.Duration
}

// NewChecker creates a checker for the given hosts. Returns nil when no
// targets are configured, which disables the category.
func NewChecker(targets []string) *Checker {
	if len(targets) == 0 {
		return nil
	}
	return &Checker{targets: targets, count: defaultCount, timeout: defaultTimeout}
}

// Check probes every target once. A target that cannot be resolved or never
// answers is reported unreachable; only a failure of every probe setup is an
// error.
func (c *Checker) Check(ctx context.Context) ([]models.ConnectivityStatus, error) {
	results := make([]models.ConnectivityStatus, 0, len(c.targets))
	var lastErr error

	for _, target := range c.targets {
		status, err := c.probe(ctx, target)
		if err != nil {
			lastErr = err
			status = models.ConnectivityStatus{Target: target, Reachable: false, PacketLossPercent: 100}
		}
		results = append(results, status)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("connectivity: %v: %w", lastErr, models.ErrMetricUnavailable)
	}
	return results, nil
}

func (c *Checker) probe(ctx context.Context, target string) (models.ConnectivityStatus, error) {
	pinger, err := probing.NewPinger(target)
	if err != nil {
		return models.ConnectivityStatus{}, fmt.Errorf("pinger for %s: %w", target, err)
	}
	pinger.Count = c.count
	pinger.Timeout = c.timeout
	pinger.Interval = 100 * time.Millisecond
	// Unprivileged UDP ping works without CAP_NET_RAW.
	pinger.SetPrivileged(false)

	if err := pinger.RunWithContext(ctx); err != nil {
		return models.ConnectivityStatus{}, fmt.Errorf("ping %s: %w", target, err)
	}

	stats := pinger.Statistics()
	return models.ConnectivityStatus{
		Target:            target,
		Reachable:         stats.PacketsRecv > 0,
		RoundTripMillis:   float64(stats.AvgRtt) / float64(time.Millisecond),
		PacketLossPercent: stats.PacketLoss,
	}, nil
}
