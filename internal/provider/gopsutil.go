package provider

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/BCschwifty/sys-API/internal/clock"
	"github.com/BCschwifty/sys-API/internal/models"
)

// ticksPerSecond converts gopsutil's second-granularity CPU times back into
// integer tick counters (centiseconds, the usual USER_HZ).
const ticksPerSecond = 100

// gopsutilProvider implements HardwareProvider on top of gopsutil.
type gopsutilProvider struct {
	clock          clock.Clock
	rootPath       string
	hasLoadAverage bool
}

// New selects the hardware backend for the current platform. gopsutil covers
// every platform we ship on; the factory only adjusts the capability set
// (Windows has no run-queue load average and roots disk lookups at the
// system drive).
func New(c clock.Clock) HardwareProvider {
	if c == nil {
		c = clock.System()
	}
	p := &gopsutilProvider{clock: c, rootPath: "/", hasLoadAverage: true}
	if runtime.GOOS == "windows" {
		p.rootPath = "C:\\"
		p.hasLoadAverage = false
	}
	return p
}

// unavailable tags a provider failure so the core can treat it as "no data".
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, models.ErrMetricUnavailable)
}

func (p *gopsutilProvider) CPUCounters(ctx context.Context) (models.CounterSnapshot, error) {
	total, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return models.CounterSnapshot{}, unavailable("cpu counters", err)
	}
	if len(total) == 0 {
		return models.CounterSnapshot{}, unavailable("cpu counters", fmt.Errorf("no aggregate row"))
	}

	snapshot := models.CounterSnapshot{
		Total:     toTicks(total[0]),
		SampledAt: p.clock.Now(),
	}

	perCore, err := cpu.TimesWithContext(ctx, true)
	if err == nil {
		for _, row := range perCore {
			snapshot.PerCore = append(snapshot.PerCore, toTicks(row))
		}
	}
	return snapshot, nil
}

func toTicks(t cpu.TimesStat) models.CPUTicks {
	return models.CPUTicks{
		User:    uint64(t.User * ticksPerSecond),
		Nice:    uint64(t.Nice * ticksPerSecond),
		System:  uint64(t.System * ticksPerSecond),
		Idle:    uint64(t.Idle * ticksPerSecond),
		Iowait:  uint64(t.Iowait * ticksPerSecond),
		Irq:     uint64(t.Irq * ticksPerSecond),
		Softirq: uint64(t.Softirq * ticksPerSecond),
		Steal:   uint64(t.Steal * ticksPerSecond),
	}
}

func (p *gopsutilProvider) NetworkCounters(ctx context.Context) ([]models.InterfaceCounters, error) {
	counters, err := gopsnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, unavailable("network counters", err)
	}
	now := p.clock.Now()
	out := make([]models.InterfaceCounters, 0, len(counters))
	for _, c := range counters {
		out = append(out, models.InterfaceCounters{
			Name:        c.Name,
			BytesSent:   c.BytesSent,
			BytesRecv:   c.BytesRecv,
			PacketsSent: c.PacketsSent,
			PacketsRecv: c.PacketsRecv,
			ErrorsIn:    c.Errin,
			ErrorsOut:   c.Errout,
			SampledAt:   now,
		})
	}
	return out, nil
}

func (p *gopsutilProvider) Memory(ctx context.Context) (*models.MemoryStatus, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, unavailable("memory", err)
	}
	status := &models.MemoryStatus{
		TotalBytes:     vm.Total,
		UsedBytes:      vm.Used,
		AvailableBytes: vm.Available,
		UsedPercent:    vm.UsedPercent,
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		status.SwapTotalBytes = swap.Total
		status.SwapUsedBytes = swap.Used
	}
	return status, nil
}

func (p *gopsutilProvider) Disks(ctx context.Context) ([]models.DiskStatus, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, unavailable("disk partitions", err)
	}

	var statuses []models.DiskStatus
	for _, part := range partitions {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			// One unreadable mount must not hide the others.
			continue
		}
		statuses = append(statuses, models.DiskStatus{
			Path:        part.Mountpoint,
			Filesystem:  part.Fstype,
			TotalBytes:  usage.Total,
			UsedBytes:   usage.Used,
			FreeBytes:   usage.Free,
			UsedPercent: usage.UsedPercent,
		})
	}
	if len(statuses) == 0 {
		// Fall back to the root filesystem when partition enumeration
		// returned nothing usable.
		usage, err := disk.UsageWithContext(ctx, p.rootPath)
		if err != nil {
			return nil, unavailable("disk usage", err)
		}
		statuses = append(statuses, models.DiskStatus{
			Path:        p.rootPath,
			Filesystem:  usage.Fstype,
			TotalBytes:  usage.Total,
			UsedBytes:   usage.Used,
			FreeBytes:   usage.Free,
			UsedPercent: usage.UsedPercent,
		})
	}
	return statuses, nil
}

func (p *gopsutilProvider) Sensors(ctx context.Context) (*models.SensorReadings, error) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil {
		return nil, unavailable("sensors", err)
	}
	readings := &models.SensorReadings{}
	for _, t := range temps {
		readings.Temperatures = append(readings.Temperatures, models.SensorReading{
			Key:   t.SensorKey,
			Value: t.Temperature,
		})
		if isCPUSensor(t.SensorKey) {
			readings.CPUTemperatures = append(readings.CPUTemperatures, t.Temperature)
		}
	}
	if len(readings.Temperatures) == 0 {
		return nil, unavailable("sensors", fmt.Errorf("no temperature sensors"))
	}
	return readings, nil
}

func isCPUSensor(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "coretemp") ||
		strings.Contains(k, "k10temp") ||
		strings.Contains(k, "cpu") ||
		strings.Contains(k, "tdie")
}

func (p *gopsutilProvider) LoadAverage(ctx context.Context) (*models.LoadAverage, error) {
	if !p.hasLoadAverage {
		return nil, unavailable("load average", fmt.Errorf("unsupported on %s", runtime.GOOS))
	}
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return nil, unavailable("load average", err)
	}
	return &models.LoadAverage{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

func (p *gopsutilProvider) Processes(ctx context.Context) ([]models.ProcessStatus, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, unavailable("processes", err)
	}
	out := make([]models.ProcessStatus, 0, len(procs))
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPercent, _ := proc.CPUPercentWithContext(ctx)
		memPercent, _ := proc.MemoryPercentWithContext(ctx)
		status := "unknown"
		if states, err := proc.StatusWithContext(ctx); err == nil && len(states) > 0 {
			status = states[0]
		}
		out = append(out, models.ProcessStatus{
			PID:        proc.Pid,
			Name:       name,
			CPUPercent: cpuPercent,
			MemPercent: memPercent,
			Status:     status,
		})
	}
	return out, nil
}

func (p *gopsutilProvider) Host(ctx context.Context) (*models.HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, unavailable("host info", err)
	}
	return &models.HostInfo{
		Hostname:      info.Hostname,
		OS:            info.OS,
		Platform:      info.Platform + " " + info.PlatformVersion,
		KernelVersion: info.KernelVersion,
		UptimeSeconds: info.Uptime,
	}, nil
}
