// SPDX-License-Identifier: MIT

package nrmoifits_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/katalvlaran/nrmoifits"
	"github.com/katalvlaran/nrmoifits/observable"
	"github.com/katalvlaran/nrmoifits/spectral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer) *nrmoifits.Logger {
	return nrmoifits.NewLogger(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogger_LogBuild(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf)
	ch, err := spectral.New([]float64{1e-6}, []float64{1e-8}, spectral.NoClip)
	require.NoError(t, err)

	coll := &observable.Collection{
		Channels: ch,
		Vis2:     make([]observable.Vis2Record, 3),
		T3:       []observable.T3Record{{Flags: []bool{true}}},
	}
	log.LogBuild(context.Background(), coll, nil)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, float64(1), rec["t3_flagged"])
	assert.Equal(t, float64(3), rec["vis2"])

	buf.Reset()
	log.LogBuild(context.Background(), nil, errors.New("bad shape"))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "bad shape", rec["error"])
}

func TestLogger_WithFileAndWrite(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf).WithFile("a.oifits")
	log.LogWrite(context.Background(), "runs/a.oifits", 5760, nil)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "oifits written", rec["msg"])
	assert.Equal(t, "a.oifits", rec["file"])
	assert.Equal(t, float64(5760), rec["bytes"])
}

func TestNoopLogger(t *testing.T) {
	log := nrmoifits.NoopLogger()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	assert.NotNil(t, nrmoifits.NewLogger(nil))
	assert.NotNil(t, nrmoifits.NewTextLogger(slog.LevelInfo))
	assert.NotNil(t, nrmoifits.NewJSONLogger(slog.LevelInfo))
}
