// Package telemetry holds the agent's self-instrumentation, exposed on the
// prometheus registry.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollectionsTotal counts provider collection calls per category and outcome.
	CollectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysapi_collections_total",
			Help: "Total number of hardware collection calls",
		},
		[]string{"category", "status"},
	)

	// CollectionDuration observes how long collection calls take per category.
	CollectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sysapi_collection_duration_seconds",
			Help:    "Hardware collection call duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"category"},
	)

	// CacheLookupsTotal counts cache hits and misses per category.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysapi_cache_lookups_total",
			Help: "Total number of sampled-metric cache lookups",
		},
		[]string{"category", "result"},
	)

	// MonitorEventsTotal counts emitted monitor status transitions.
	MonitorEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysapi_monitor_events_total",
			Help: "Total number of monitor status-change events",
		},
		[]string{"type", "status"},
	)

	// MonitorsActive tracks the number of registered monitors.
	MonitorsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sysapi_monitors_active",
			Help: "Number of currently registered monitors",
		},
	)

	// HistoryEntries tracks the size of the in-memory history store.
	HistoryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sysapi_history_entries",
			Help: "Number of entries currently held in the history store",
		},
	)
)
