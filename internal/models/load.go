package models

import "time"

// StateLoads is the per-state CPU load share in percent. The eight shares of
// one valid sample sum to 100 within rounding tolerance.
type StateLoads struct {
	User    float64 `json:"user"`
	Nice    float64 `json:"nice"`
	System  float64 `json:"system"`
	Idle    float64 `json:"idle"`
	Iowait  float64 `json:"iowait"`
	Irq     float64 `json:"irq"`
	Softirq float64 `json:"softirq"`
	Steal   float64 `json:"steal"`
}

// CPULoad is the derived CPU rate result for one sampling window.
// Recomputed per query, never persisted.
type CPULoad struct {
	SystemLoadPercent float64    `json:"system_load_percent"`
	PerState          StateLoads `json:"per_state"`
	PerCoreLoad       []float64  `json:"per_core_load,omitempty"`
	CoreCount         int        `json:"core_count"`
}

// NetworkSpeed is the derived throughput of one interface (or the aggregate
// of all interfaces) over a sampling window, in bits per second.
type NetworkSpeed struct {
	BitsPerSecondRead  float64 `json:"bits_per_second_read"`
	BitsPerSecondWrite float64 `json:"bits_per_second_write"`
}

// InterfaceLoad pairs an interface's raw counters with its derived speed.
type InterfaceLoad struct {
	Counters InterfaceCounters `json:"counters"`
	Speed    NetworkSpeed      `json:"speed"`
}

// NetworkStatus aggregates throughput across all interfaces.
type NetworkStatus struct {
	Aggregate  NetworkSpeed    `json:"aggregate"`
	Interfaces []InterfaceLoad `json:"interfaces"`
}

// MemoryStatus represents memory usage at a point in time.
type MemoryStatus struct {
	TotalBytes     uint64  `json:"total_bytes"`
	UsedBytes      uint64  `json:"used_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	SwapTotalBytes uint64  `json:"swap_total_bytes"`
	SwapUsedBytes  uint64  `json:"swap_used_bytes"`
	UsedPercent    float64 `json:"used_percent"`
}

// DiskStatus represents usage of one mounted filesystem.
type DiskStatus struct {
	Path        string  `json:"path"`
	Filesystem  string  `json:"filesystem"`
	TotalBytes  uint64  `json:"total_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// SensorReading is one point-in-time hardware sensor value.
type SensorReading struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// SensorReadings groups the sensor values captured in one pass.
type SensorReadings struct {
	CPUTemperatures []float64       `json:"cpu_temperatures,omitempty"`
	Temperatures    []SensorReading `json:"temperatures,omitempty"`
	FanRPM          []SensorReading `json:"fan_rpm,omitempty"`
	Voltages        []SensorReading `json:"voltages,omitempty"`
}

// LoadAverage holds the 1/5/15 minute run-queue averages.
type LoadAverage struct {
	Load1  float64 `json:"load1"`
	Load5  float64 `json:"load5"`
	Load15 float64 `json:"load15"`
}

// ConnectivityStatus is the result of probing one external target.
type ConnectivityStatus struct {
	Target            string  `json:"target"`
	Reachable         bool    `json:"reachable"`
	RoundTripMillis   float64 `json:"round_trip_millis"`
	PacketLossPercent float64 `json:"packet_loss_percent"`
}

// ProcessStatus is a single process as seen in one sampling pass.
type ProcessStatus struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float32 `json:"mem_percent"`
	Status     string  `json:"status"`
}

// HostInfo describes the machine the agent runs on.
type HostInfo struct {
	Hostname      string `json:"hostname"`
	OS            string `json:"os"`
	Platform      string `json:"platform"`
	KernelVersion string `json:"kernel_version"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
}

// SystemLoad is one tick's combined snapshot of all metric categories.
// A nil field means that category was unavailable for this tick; consumers
// must treat it as "no data" rather than zero.
type SystemLoad struct {
	Timestamp    time.Time            `json:"timestamp"`
	CPU          *CPULoad             `json:"cpu,omitempty"`
	Memory       *MemoryStatus        `json:"memory,omitempty"`
	Disks        []DiskStatus         `json:"disks,omitempty"`
	Network      *NetworkStatus       `json:"network,omitempty"`
	Sensors      *SensorReadings      `json:"sensors,omitempty"`
	LoadAverage  *LoadAverage         `json:"load_average,omitempty"`
	Connectivity []ConnectivityStatus `json:"connectivity,omitempty"`
}
