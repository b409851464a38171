package rate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/BCschwifty/sys-API/internal/models"
)

func snapshotAt(t time.Time, ticks models.CPUTicks) models.CounterSnapshot {
	return models.CounterSnapshot{Total: ticks, SampledAt: t}
}

func TestComputeCPULoadStateSharesSumTo100(t *testing.T) {
	base := time.Now()
	prev := snapshotAt(base, models.CPUTicks{User: 100, Nice: 10, System: 50, Idle: 800, Iowait: 20, Irq: 5, Softirq: 7, Steal: 1})
	cur := snapshotAt(base.Add(time.Second), models.CPUTicks{User: 163, Nice: 13, System: 71, Idle: 871, Iowait: 29, Irq: 8, Softirq: 11, Steal: 3})

	load, err := ComputeCPULoad(prev, cur)
	if err != nil {
		t.Fatalf("ComputeCPULoad: %v", err)
	}

	s := load.PerState
	sum := s.User + s.Nice + s.System + s.Idle + s.Iowait + s.Irq + s.Softirq + s.Steal
	if math.Abs(sum-100) > 0.01*8 {
		t.Errorf("per-state shares sum to %v, want 100 within rounding tolerance", sum)
	}
}

func TestComputeCPULoadBusyPercent(t *testing.T) {
	base := time.Now()
	// 100 elapsed ticks: 60 idle, 10 iowait, 30 busy.
	prev := snapshotAt(base, models.CPUTicks{})
	cur := snapshotAt(base.Add(time.Second), models.CPUTicks{User: 20, System: 10, Idle: 60, Iowait: 10})

	load, err := ComputeCPULoad(prev, cur)
	if err != nil {
		t.Fatalf("ComputeCPULoad: %v", err)
	}
	if load.SystemLoadPercent != 30 {
		t.Errorf("SystemLoadPercent = %v, want 30", load.SystemLoadPercent)
	}
	if load.PerState.User != 20 || load.PerState.Idle != 60 {
		t.Errorf("unexpected state shares: %+v", load.PerState)
	}
}

func TestComputeCPULoadZeroElapsedTicks(t *testing.T) {
	base := time.Now()
	ticks := models.CPUTicks{User: 100, Idle: 900}
	_, err := ComputeCPULoad(snapshotAt(base, ticks), snapshotAt(base.Add(time.Millisecond), ticks))
	if !errors.Is(err, models.ErrInsufficientSampleData) {
		t.Fatalf("err = %v, want ErrInsufficientSampleData", err)
	}
}

func TestComputeCPULoadCounterResetClampsToZero(t *testing.T) {
	base := time.Now()
	prev := snapshotAt(base, models.CPUTicks{User: 500, Idle: 500})
	// User counter went backwards; only idle advanced.
	cur := snapshotAt(base.Add(time.Second), models.CPUTicks{User: 100, Idle: 600})

	load, err := ComputeCPULoad(prev, cur)
	if err != nil {
		t.Fatalf("ComputeCPULoad: %v", err)
	}
	if load.PerState.User != 0 {
		t.Errorf("PerState.User = %v, want 0 after counter reset", load.PerState.User)
	}
	if load.PerState.Idle != 100 {
		t.Errorf("PerState.Idle = %v, want 100", load.PerState.Idle)
	}
}

func TestComputeCPULoadPerCore(t *testing.T) {
	base := time.Now()
	prev := models.CounterSnapshot{
		Total:     models.CPUTicks{Idle: 200},
		PerCore:   []models.CPUTicks{{Idle: 100}, {Idle: 100}},
		SampledAt: base,
	}
	cur := models.CounterSnapshot{
		Total:     models.CPUTicks{User: 50, Idle: 350},
		PerCore:   []models.CPUTicks{{User: 50, Idle: 150}, {Idle: 200}},
		SampledAt: base.Add(time.Second),
	}

	load, err := ComputeCPULoad(prev, cur)
	if err != nil {
		t.Fatalf("ComputeCPULoad: %v", err)
	}
	want := []float64{50, 0}
	if diff := cmp.Diff(want, load.PerCoreLoad); diff != "" {
		t.Errorf("PerCoreLoad mismatch (-want +got):\n%s", diff)
	}
	if load.CoreCount != 2 {
		t.Errorf("CoreCount = %d, want 2", load.CoreCount)
	}
}

func TestComputeNetworkSpeedExactArithmetic(t *testing.T) {
	base := time.Now()
	prev := models.InterfaceCounters{Name: "eth0", BytesRecv: 1_000_000, BytesSent: 500_000, SampledAt: base}
	cur := models.InterfaceCounters{Name: "eth0", BytesRecv: 3_000_000, BytesSent: 1_500_000, SampledAt: base.Add(2 * time.Second)}

	speed := ComputeNetworkSpeed(prev, cur)
	if speed.BitsPerSecondRead != 8*2_000_000/2 {
		t.Errorf("BitsPerSecondRead = %v, want %v", speed.BitsPerSecondRead, 8*2_000_000/2)
	}
	if speed.BitsPerSecondWrite != 8*1_000_000/2 {
		t.Errorf("BitsPerSecondWrite = %v, want %v", speed.BitsPerSecondWrite, 8*1_000_000/2)
	}
}

func TestComputeNetworkSpeedFirstSampleIsZero(t *testing.T) {
	cur := models.InterfaceCounters{Name: "eth0", BytesRecv: 123, BytesSent: 456, SampledAt: time.Now()}
	speed := ComputeNetworkSpeed(models.InterfaceCounters{}, cur)
	if speed.BitsPerSecondRead != 0 || speed.BitsPerSecondWrite != 0 {
		t.Errorf("first sample speed = %+v, want zeroes", speed)
	}
}

func TestComputeNetworkSpeedCounterResetClampsToZero(t *testing.T) {
	base := time.Now()
	prev := models.InterfaceCounters{Name: "eth0", BytesRecv: 9_000_000, BytesSent: 100, SampledAt: base}
	cur := models.InterfaceCounters{Name: "eth0", BytesRecv: 1_000, BytesSent: 900, SampledAt: base.Add(time.Second)}

	speed := ComputeNetworkSpeed(prev, cur)
	if speed.BitsPerSecondRead != 0 {
		t.Errorf("BitsPerSecondRead = %v, want 0 after counter reset", speed.BitsPerSecondRead)
	}
	if speed.BitsPerSecondWrite != 8*800 {
		t.Errorf("BitsPerSecondWrite = %v, want %v", speed.BitsPerSecondWrite, 8*800)
	}
}

func TestRound2HalfToEven(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		// Exact binary halves land on the even neighbour.
		{0.125, 0.12},
		{0.375, 0.38},
		{1.234, 1.23},
		{1.236, 1.24},
		{50, 50},
	}
	for _, tc := range cases {
		if got := round2(tc.in); got != tc.want {
			t.Errorf("round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
