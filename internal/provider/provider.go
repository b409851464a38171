// Package provider is the boundary to platform hardware access. The rest of
// the core only sees the HardwareProvider capability set; any failure is
// reported as a metric-unavailable error, never as a process-fatal one.
package provider

import (
	"context"

	"github.com/BCschwifty/sys-API/internal/models"
)

// HardwareProvider supplies raw counters and point-in-time readings. One
// implementation is selected per platform at process start; all variants
// implement the same capability set.
type HardwareProvider interface {
	// CPUCounters captures the monotonically increasing tick counters,
	// aggregated and per logical core.
	CPUCounters(ctx context.Context) (models.CounterSnapshot, error)

	// NetworkCounters captures the byte/packet counters of every interface.
	NetworkCounters(ctx context.Context) ([]models.InterfaceCounters, error)

	Memory(ctx context.Context) (*models.MemoryStatus, error)
	Disks(ctx context.Context) ([]models.DiskStatus, error)
	Sensors(ctx context.Context) (*models.SensorReadings, error)
	LoadAverage(ctx context.Context) (*models.LoadAverage, error)
	Processes(ctx context.Context) ([]models.ProcessStatus, error)
	Host(ctx context.Context) (*models.HostInfo, error)
}
