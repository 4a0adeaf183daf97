package neargo

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/neargo/neighborfile"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordIndexBuild is called after the label index is constructed.
	// labels is the number of distinct labels, collisions the number of
	// labels claimed by more than one object.
	RecordIndexBuild(labels, collisions int, duration time.Duration, err error)

	// RecordLoad is called after each load attempt.
	// stats is zero when err is non-nil.
	RecordLoad(stats neighborfile.Stats, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIndexBuild(int, int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordLoad(neighborfile.Stats, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IndexBuilds     atomic.Int64
	IndexErrors     atomic.Int64
	IndexCollisions atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadWarnings    atomic.Int64
	LoadSubjects    atomic.Int64
	LoadTotalNanos  atomic.Int64
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(_, collisions int, _ time.Duration, err error) {
	b.IndexBuilds.Add(1)
	b.IndexCollisions.Add(int64(collisions))
	if err != nil {
		b.IndexErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(stats neighborfile.Stats, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadWarnings.Add(int64(stats.Warnings))
	b.LoadSubjects.Add(int64(stats.Subjects))
}
