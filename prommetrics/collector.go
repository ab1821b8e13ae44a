// SPDX-License-Identifier: MIT

// Package prommetrics exports converter metrics to Prometheus.
package prommetrics

import (
	"fmt"
	"time"

	"github.com/katalvlaran/nrmoifits"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nrmoifits"

var _ nrmoifits.MetricsCollector = (*Collector)(nil)

// Collector implements nrmoifits.MetricsCollector with Prometheus vectors
// labelled by outcome ("ok" or "error").
type Collector struct {
	latency *prometheus.HistogramVec
	ops     *prometheus.CounterVec
	flagged prometheus.Counter
	bytes   prometheus.Counter
}

// New creates the metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of build and write operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "outcome"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Build and write operations by outcome.",
		}, []string{"op", "outcome"}),
		flagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flagged_closure_phases_total",
			Help:      "Closure-phase samples above the phase ceiling.",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "written_bytes_total",
			Help:      "Encoded OIFITS bytes stored.",
		}),
	}
	for _, m := range []prometheus.Collector{c.latency, c.ops, c.flagged, c.bytes} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("prommetrics: %w", err)
		}
	}

	return c, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}

// RecordBuild implements nrmoifits.MetricsCollector.
func (c *Collector) RecordBuild(d time.Duration, flagged int, err error) {
	c.latency.WithLabelValues("build", outcome(err)).Observe(d.Seconds())
	c.ops.WithLabelValues("build", outcome(err)).Inc()
	c.flagged.Add(float64(flagged))
}

// RecordWrite implements nrmoifits.MetricsCollector.
func (c *Collector) RecordWrite(d time.Duration, size int, err error) {
	c.latency.WithLabelValues("write", outcome(err)).Observe(d.Seconds())
	c.ops.WithLabelValues("write", outcome(err)).Inc()
	if err == nil {
		c.bytes.Add(float64(size))
	}
}
