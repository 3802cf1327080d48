package sdfstore

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordBuild is called after each full index build.
	RecordBuild(records, malformed int, duration time.Duration, err error)

	// RecordLookup is called after each point lookup (by ID, InChI, InChIKey).
	RecordLookup(duration time.Duration, err error)

	// RecordSearch is called after each multi-valued search.
	// kind names the index searched ("name", "synonym", "cas", "formula").
	RecordSearch(kind string, results int, duration time.Duration)

	// RecordExport is called after each tabular export.
	RecordExport(rows int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordLookup(time.Duration, error)          {}
func (NoopMetricsCollector) RecordSearch(string, int, time.Duration)    {}
func (NoopMetricsCollector) RecordExport(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	LookupCount      atomic.Int64
	LookupErrors     atomic.Int64
	LookupTotalNanos atomic.Int64
	SearchCount      atomic.Int64
	SearchResults    atomic.Int64
	ExportCount      atomic.Int64
	ExportRows       atomic.Int64
}

func (m *BasicMetricsCollector) RecordBuild(_, _ int, _ time.Duration, err error) {
	m.BuildCount.Add(1)
	if err != nil {
		m.BuildErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordLookup(d time.Duration, err error) {
	m.LookupCount.Add(1)
	m.LookupTotalNanos.Add(int64(d))
	if err != nil {
		m.LookupErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordSearch(_ string, results int, _ time.Duration) {
	m.SearchCount.Add(1)
	m.SearchResults.Add(int64(results))
}

func (m *BasicMetricsCollector) RecordExport(rows int, _ time.Duration, err error) {
	m.ExportCount.Add(1)
	if err == nil {
		m.ExportRows.Add(int64(rows))
	}
}
