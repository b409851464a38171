package monitor

import "github.com/BCschwifty/sys-API/internal/models"

// resolveValue extracts the observed value for a monitor from the snapshot.
// Returns false when the targeted metric is absent this tick.
func resolveValue(load *models.SystemLoad, m *models.Monitor) (float64, bool) {
	switch m.Type {
	case models.MonitorCPULoad:
		if load.CPU == nil {
			return 0, false
		}
		return load.CPU.SystemLoadPercent, true

	case models.MonitorCPUTemp:
		if load.Sensors == nil || len(load.Sensors.CPUTemperatures) == 0 {
			return 0, false
		}
		max := load.Sensors.CPUTemperatures[0]
		for _, t := range load.Sensors.CPUTemperatures[1:] {
			if t > max {
				max = t
			}
		}
		return max, true

	case models.MonitorMemory:
		if load.Memory == nil {
			return 0, false
		}
		return load.Memory.UsedPercent, true

	case models.MonitorNetworkUp:
		speed, ok := interfaceSpeed(load, m.TargetID)
		if !ok {
			return 0, false
		}
		return speed.BitsPerSecondWrite, true

	case models.MonitorNetworkDown:
		speed, ok := interfaceSpeed(load, m.TargetID)
		if !ok {
			return 0, false
		}
		return speed.BitsPerSecondRead, true

	case models.MonitorDiskSpace:
		// Threshold and value are free bytes on the targeted mount.
		for _, d := range load.Disks {
			if d.Path == m.TargetID || (m.TargetID == "" && (d.Path == "/" || d.Path == "C:\\")) {
				return float64(d.FreeBytes), true
			}
		}
		return 0, false

	case models.MonitorConnectivity:
		// Value is the round-trip latency to the targeted host; an
		// unreachable target is absent data, not an implicit breach.
		for _, c := range load.Connectivity {
			if m.TargetID != "" && c.Target != m.TargetID {
				continue
			}
			if !c.Reachable {
				return 0, false
			}
			return c.RoundTripMillis, true
		}
		return 0, false
	}
	return 0, false
}

// interfaceSpeed picks the aggregate speed, or one interface's when target
// names it.
func interfaceSpeed(load *models.SystemLoad, target string) (models.NetworkSpeed, bool) {
	if load.Network == nil {
		return models.NetworkSpeed{}, false
	}
	if target == "" {
		return load.Network.Aggregate, true
	}
	for _, iface := range load.Network.Interfaces {
		if iface.Counters.Name == target {
			return iface.Speed, true
		}
	}
	return models.NetworkSpeed{}, false
}
