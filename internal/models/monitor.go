package models

import (
	"time"

	"github.com/google/uuid"
)

// MonitorType identifies which snapshot field a monitor watches.
type MonitorType string

const (
	MonitorCPULoad      MonitorType = "cpu_load"
	MonitorCPUTemp      MonitorType = "cpu_temp"
	MonitorMemory       MonitorType = "memory"
	MonitorNetworkUp    MonitorType = "network_up"
	MonitorNetworkDown  MonitorType = "network_down"
	MonitorDiskSpace    MonitorType = "disk_space"
	MonitorConnectivity MonitorType = "connectivity"
)

// ThresholdDirection states on which side of the threshold a value must fall
// for the condition to hold. It is an explicit property of the type table,
// never inferred from the type's name.
type ThresholdDirection int

const (
	// AlertAbove holds when value >= threshold (load, temperature, traffic).
	AlertAbove ThresholdDirection = iota
	// AlertBelow holds when value <= threshold (free disk space).
	AlertBelow
)

var monitorDirections = map[MonitorType]ThresholdDirection{
	MonitorCPULoad:      AlertAbove,
	MonitorCPUTemp:      AlertAbove,
	MonitorMemory:       AlertAbove,
	MonitorNetworkUp:    AlertAbove,
	MonitorNetworkDown:  AlertAbove,
	MonitorDiskSpace:    AlertBelow,
	MonitorConnectivity: AlertAbove,
}

// Valid reports whether t is a known monitor type.
func (t MonitorType) Valid() bool {
	_, ok := monitorDirections[t]
	return ok
}

// Direction returns the threshold direction for t.
func (t MonitorType) Direction() ThresholdDirection {
	return monitorDirections[t]
}

// Holds reports whether value satisfies the alert condition against threshold.
func (d ThresholdDirection) Holds(value, threshold float64) bool {
	if d == AlertBelow {
		return value <= threshold
	}
	return value >= threshold
}

// MonitorStatus is the externally visible state of a monitor.
type MonitorStatus string

const (
	// StatusOK: condition not met.
	StatusOK MonitorStatus = "OK"
	// StatusArmed: condition met, inertia timer running, no alert yet.
	StatusArmed MonitorStatus = "ARMED"
	// StatusAlert: condition sustained for at least the inertia duration.
	StatusAlert MonitorStatus = "ALERT"
)

// Monitor is one user-defined threshold rule. All instances are owned by the
// monitor engine; external callers only read copies.
type Monitor struct {
	ID        uuid.UUID     `json:"id"`
	TargetID  string        `json:"target_id,omitempty"`
	Type      MonitorType   `json:"type"`
	Threshold float64       `json:"threshold"`
	Inertia   time.Duration `json:"inertia"`
	Status    MonitorStatus `json:"status"`
}

// CreateMonitor is the request payload for registering a new monitor.
// InertiaSeconds of zero falls back to the configured default.
type CreateMonitor struct {
	TargetID       string      `json:"target_id"`
	Type           MonitorType `json:"type" binding:"required"`
	Threshold      float64     `json:"threshold"`
	InertiaSeconds int64       `json:"inertia_seconds"`
}

// MonitorEvent records one status transition. Emitted only when a monitor
// enters ALERT or recovers from it, never on re-evaluation.
type MonitorEvent struct {
	ID            uuid.UUID     `json:"id"`
	MonitorID     uuid.UUID     `json:"monitor_id"`
	Time          time.Time     `json:"time"`
	Type          MonitorType   `json:"type"`
	Status        MonitorStatus `json:"status"`
	Threshold     float64       `json:"threshold"`
	ObservedValue float64       `json:"observed_value"`
}
