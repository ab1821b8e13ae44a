// SPDX-License-Identifier: MIT

package prommetrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/katalvlaran/nrmoifits/prommetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValues sums every counter sample per family name.
func counterValues(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if c := m.GetCounter(); c != nil {
				out[f.GetName()] += c.GetValue()
			}
		}
	}
	return out
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := prommetrics.New(reg)
	require.NoError(t, err)

	c.RecordBuild(time.Millisecond, 3, nil)
	c.RecordBuild(time.Millisecond, 0, errors.New("shape"))
	c.RecordWrite(2*time.Millisecond, 8640, nil)
	c.RecordWrite(time.Millisecond, 100, errors.New("disk"))

	got := counterValues(t, reg)
	assert.Equal(t, 4.0, got["nrmoifits_operations_total"])
	assert.Equal(t, 3.0, got["nrmoifits_flagged_closure_phases_total"])
	assert.Equal(t, 8640.0, got["nrmoifits_written_bytes_total"])
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := prommetrics.New(reg)
	require.NoError(t, err)
	_, err = prommetrics.New(reg)
	assert.Error(t, err)
}
