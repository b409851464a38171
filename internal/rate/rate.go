// Package rate converts pairs of monotonically increasing counter snapshots
// into per-second rates. All functions are pure: they never touch hardware
// and hold no state between calls.
package rate

import (
	"fmt"
	"math"

	"github.com/BCschwifty/sys-API/internal/models"
)

const bitsPerByte = 8

// ComputeCPULoad derives per-state and per-core load percentages from two
// CPU counter snapshots. The previous snapshot must predate the current one.
// When no ticks elapsed between the snapshots it returns
// models.ErrInsufficientSampleData; callers must widen the sampling window
// and retry.
func ComputeCPULoad(prev, cur models.CounterSnapshot) (*models.CPULoad, error) {
	busy, states, err := stateShares(prev.Total, cur.Total)
	if err != nil {
		return nil, err
	}

	load := &models.CPULoad{
		SystemLoadPercent: busy,
		PerState:          states,
		CoreCount:         len(cur.PerCore),
	}

	cores := len(cur.PerCore)
	if len(prev.PerCore) < cores {
		cores = len(prev.PerCore)
	}
	for i := 0; i < cores; i++ {
		coreBusy, _, err := stateShares(prev.PerCore[i], cur.PerCore[i])
		if err != nil {
			// A stalled core yields no ticks; report it as idle rather
			// than failing the whole sample.
			coreBusy = 0
		}
		load.PerCoreLoad = append(load.PerCoreLoad, coreBusy)
	}
	return load, nil
}

// stateShares computes the per-channel shares for one tick row pair.
// Returns the busy share (100 minus idle and iowait) and the per-state shares.
func stateShares(prev, cur models.CPUTicks) (float64, models.StateLoads, error) {
	d := models.CPUTicks{
		User:    tickDelta(prev.User, cur.User),
		Nice:    tickDelta(prev.Nice, cur.Nice),
		System:  tickDelta(prev.System, cur.System),
		Idle:    tickDelta(prev.Idle, cur.Idle),
		Iowait:  tickDelta(prev.Iowait, cur.Iowait),
		Irq:     tickDelta(prev.Irq, cur.Irq),
		Softirq: tickDelta(prev.Softirq, cur.Softirq),
		Steal:   tickDelta(prev.Steal, cur.Steal),
	}
	total := d.Total()
	if total == 0 {
		return 0, models.StateLoads{}, fmt.Errorf("no elapsed cpu ticks: %w",
			models.ErrInsufficientSampleData)
	}

	states := models.StateLoads{
		User:    share(d.User, total),
		Nice:    share(d.Nice, total),
		System:  share(d.System, total),
		Idle:    share(d.Idle, total),
		Iowait:  share(d.Iowait, total),
		Irq:     share(d.Irq, total),
		Softirq: share(d.Softirq, total),
		Steal:   share(d.Steal, total),
	}
	busy := round2(100 * float64(total-d.Idle-d.Iowait) / float64(total))
	return busy, states, nil
}

// ComputeNetworkSpeed derives throughput in bits per second from two counter
// readings of the same interface. A zero-valued previous reading (first query
// after registration) yields a defined rate of zero rather than an error, and
// counters that appear to decrease (driver restart, re-enumeration) are
// treated as a zero delta.
func ComputeNetworkSpeed(prev, cur models.InterfaceCounters) models.NetworkSpeed {
	if prev.SampledAt.IsZero() {
		return models.NetworkSpeed{}
	}
	elapsed := cur.SampledAt.Sub(prev.SampledAt).Seconds()
	if elapsed <= 0 {
		return models.NetworkSpeed{}
	}
	return models.NetworkSpeed{
		BitsPerSecondRead:  bitsPerByte * float64(byteDelta(prev.BytesRecv, cur.BytesRecv)) / elapsed,
		BitsPerSecondWrite: bitsPerByte * float64(byteDelta(prev.BytesSent, cur.BytesSent)) / elapsed,
	}
}

func tickDelta(prev, cur uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func byteDelta(prev, cur uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func share(delta, total uint64) float64 {
	return round2(100 * float64(delta) / float64(total))
}

// round2 rounds to two decimal places, half to even.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
