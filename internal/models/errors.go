package models

import "errors"

var (
	// ErrInsufficientSampleData means a rate was requested before a valid
	// sampling window existed. Callers should resample after a short delay.
	ErrInsufficientSampleData = errors.New("insufficient sample data")

	// ErrMetricUnavailable means the hardware layer could not supply a value.
	// Monitors treat this as "no data", never as a breach.
	ErrMetricUnavailable = errors.New("metric unavailable")

	// ErrCollectionTimeout means an underlying collection call exceeded its
	// deadline. The cache entry for that category is left untouched.
	ErrCollectionTimeout = errors.New("collection timed out")

	// ErrInvalidMonitorSpec is returned synchronously when a create-monitor
	// request carries a malformed threshold, inertia or type.
	ErrInvalidMonitorSpec = errors.New("invalid monitor spec")

	// ErrAllMetricsFailed is returned when every category of a snapshot
	// failed to collect. Partial failures never produce it.
	ErrAllMetricsFailed = errors.New("all metric categories failed")
)
