package models

import "time"

// CPUTicks holds the monotonically increasing tick counters for one logical
// CPU, split over the eight scheduler states.
type CPUTicks struct {
	User    uint64 `json:"user"`
	Nice    uint64 `json:"nice"`
	System  uint64 `json:"system"`
	Idle    uint64 `json:"idle"`
	Iowait  uint64 `json:"iowait"`
	Irq     uint64 `json:"irq"`
	Softirq uint64 `json:"softirq"`
	Steal   uint64 `json:"steal"`
}

// Total returns the sum of all tick channels.
func (t CPUTicks) Total() uint64 {
	return t.User + t.Nice + t.System + t.Idle + t.Iowait + t.Irq + t.Softirq + t.Steal
}

// CounterSnapshot is one atomically-enough captured set of CPU tick counters.
// Immutable once captured.
type CounterSnapshot struct {
	Total     CPUTicks   `json:"total"`
	PerCore   []CPUTicks `json:"per_core,omitempty"`
	SampledAt time.Time  `json:"sampled_at"`
}

// Zero reports whether the snapshot was never captured.
func (s CounterSnapshot) Zero() bool {
	return s.SampledAt.IsZero()
}

// InterfaceCounters holds the raw byte/packet counters of one network
// interface at a point in time.
type InterfaceCounters struct {
	Name        string    `json:"name"`
	BytesSent   uint64    `json:"bytes_sent"`
	BytesRecv   uint64    `json:"bytes_recv"`
	PacketsSent uint64    `json:"packets_sent"`
	PacketsRecv uint64    `json:"packets_recv"`
	ErrorsIn    uint64    `json:"errors_in"`
	ErrorsOut   uint64    `json:"errors_out"`
	SampledAt   time.Time `json:"sampled_at"`
}
