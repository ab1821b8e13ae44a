// SPDX-License-Identifier: MIT

package nrmoifits

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives one call per converter operation. Implement it
// to feed a monitoring system; see package prommetrics for Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after each Build or BuildFromText.
	// flagged counts closure-phase samples above the ceiling.
	RecordBuild(duration time.Duration, flagged int, err error)

	// RecordWrite is called after each Write; size is the encoded length.
	RecordWrite(duration time.Duration, size int, err error)
}

// NoopMetricsCollector discards everything.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(time.Duration, int, error) {}
func (NoopMetricsCollector) RecordWrite(time.Duration, int, error) {}

// BasicMetricsCollector keeps in-memory counters. Safe for concurrent use.
type BasicMetricsCollector struct {
	Builds       atomic.Int64
	BuildErrors  atomic.Int64
	FlaggedPhase atomic.Int64
	Writes       atomic.Int64
	WriteErrors  atomic.Int64
	BytesWritten atomic.Int64
	TotalNanos   atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(d time.Duration, flagged int, err error) {
	b.Builds.Add(1)
	b.TotalNanos.Add(d.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.FlaggedPhase.Add(int64(flagged))
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(d time.Duration, size int, err error) {
	b.Writes.Add(1)
	b.TotalNanos.Add(d.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.BytesWritten.Add(int64(size))
}
