// SPDX-License-Identifier: MIT

package nrmoifits_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/katalvlaran/nrmoifits"
	"github.com/katalvlaran/nrmoifits/archive"
	"github.com/katalvlaran/nrmoifits/config"
	"github.com/katalvlaran/nrmoifits/geometry"
	"github.com/katalvlaran/nrmoifits/matrix"
	"github.com/katalvlaran/nrmoifits/observable"
	"github.com/katalvlaran/nrmoifits/oifits"
	"github.com/katalvlaran/nrmoifits/spectral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sevenHole is a 7-hole non-redundant layout in metres.
var sevenHole = []geometry.Position{
	{X: 0, Y: -2.64}, {X: -2.29, Y: 0}, {X: 2.29, Y: -1.32}, {X: -2.29, Y: 1.32},
	{X: -1.14, Y: 1.98}, {X: 2.29, Y: 1.32}, {X: 1.14, Y: 1.98},
}

func uniform(rows, cols int, v float64) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = v
		}
	}
	return out
}

func channels(t *testing.T, n int, clip spectral.Clip) *spectral.Channels {
	t.Helper()
	wls := make([]float64, n)
	for i := range wls {
		wls[i] = 1.5e-6 + float64(i)*2e-8
	}
	ch, err := spectral.Uniform(wls, clip)
	require.NoError(t, err)
	return ch
}

func TestNew_Geometry(t *testing.T) {
	conv, err := nrmoifits.New(sevenHole, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, conv.Holes())
	assert.Equal(t, 21, conv.Baselines().Len())
	assert.Equal(t, 35, conv.Triangles().Len())
	assert.Equal(t, sevenHole, conv.Positions())
	assert.Equal(t, config.DefaultPhaseCeil, conv.Config().PhaseCeil)
}

func TestNew_LogsNotices(t *testing.T) {
	var buf bytes.Buffer
	log := nrmoifits.NewLogger(slog.NewTextHandler(&buf, nil))
	_, err := nrmoifits.New(sevenHole, nil, nrmoifits.WithLogger(log))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), config.NoticeNoMaskRotation)
	assert.Contains(t, buf.String(), config.NoticeNoPhaseCeil)

	buf.Reset()
	cfg, err := config.New(config.WithMaskRotation(0), config.WithPhaseCeil(math.Pi))
	require.NoError(t, err)
	_, err = nrmoifits.New(sevenHole, cfg, nrmoifits.WithLogger(log))
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	buf.Reset()
	cfg, err = config.New(config.WithMaskRotation(0), config.WithPhaseCeil(math.Pi), config.WithTelescope(config.GeminiTelescope))
	require.NoError(t, err)
	_, err = nrmoifits.New(sevenHole, cfg, nrmoifits.WithLogger(log))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "-24.5")
	assert.NotContains(t, buf.String(), config.NoticeNoPhaseCeil)
}

func TestNew_SkyRotation(t *testing.T) {
	cfg, err := config.New(config.WithParallacticAngle(-90, 0))
	require.NoError(t, err)
	pos := []geometry.Position{{X: 1, Y: 0}, {X: 0, Y: 0}}

	plain, err := nrmoifits.New(pos, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1.0, plain.Baselines().U[0])

	rotated, err := nrmoifits.New(pos, cfg, nrmoifits.WithSkyRotation())
	require.NoError(t, err)
	// -parang = +90 degrees: (1,0) -> (0,1)
	assert.InDelta(t, 0.0, rotated.Baselines().U[0], 1e-12)
	assert.InDelta(t, 1.0, rotated.Baselines().V[0], 1e-12)

	flipped, err := nrmoifits.New([]geometry.Position{{X: 0, Y: 1}, {X: 0, Y: 0}}, cfg, nrmoifits.WithFlipY())
	require.NoError(t, err)
	assert.Equal(t, -1.0, flipped.Baselines().V[0])
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)
	cfg.IntTime = -1
	_, err = nrmoifits.New(sevenHole, cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestBuild_GoldenUniform(t *testing.T) {
	conv, err := nrmoifits.New(sevenHole, nil)
	require.NoError(t, err)
	ch := channels(t, 1, spectral.NoClip)

	coll, err := conv.Build(ch, observable.Measurements{
		V2: uniform(1, 21, 1), V2Err: uniform(1, 21, 0),
		CP: uniform(1, 35, 0), CPErr: uniform(1, 35, 0),
	})
	require.NoError(t, err)
	require.Len(t, coll.T3, 35)
	for _, r := range coll.T3 {
		assert.Equal(t, []float64{1}, r.Amp)
		assert.Equal(t, []float64{0}, r.AmpErr)
		assert.Equal(t, []bool{false}, r.Flags)
	}
	assert.Equal(t, "object", coll.Target.Name)
	assert.Equal(t, "Unknown", coll.Array.Name)
}

func TestBuild_ShapeMismatch(t *testing.T) {
	conv, err := nrmoifits.New(sevenHole, nil)
	require.NoError(t, err)
	_, err = conv.Build(channels(t, 2, spectral.NoClip), observable.Measurements{
		V2: uniform(2, 20, 1), V2Err: uniform(2, 21, 0),
		CP: uniform(2, 35, 0), CPErr: uniform(2, 35, 0),
	})
	assert.ErrorIs(t, err, observable.ErrShapeMismatch)
}

func TestWrite_RoundTrip(t *testing.T) {
	cov, err := matrix.NewDenseFromRows([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	cfg, err := config.New(
		config.WithPath("runs/"),
		config.WithTarget("AB Aur", 73.94, 30.55),
		config.WithTelescope("GEMINI"),
		config.WithPhaseCeil(1.0),
		config.WithCovariance(cov),
	)
	require.NoError(t, err)
	conv, err := nrmoifits.New(sevenHole, cfg)
	require.NoError(t, err)

	ch := channels(t, 5, spectral.Symmetric(1))
	cp := uniform(5, 35, 0.2)
	cp[2][4] = 1.5 // becomes channel 1 after the clip
	coll, err := conv.Build(ch, observable.Measurements{
		V2: uniform(5, 21, 0.81), V2Err: uniform(5, 21, 0.01),
		CP: cp, CPErr: uniform(5, 35, 0.01),
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, coll.T3[4].Flags)

	store := archive.NewMemoryStore()
	for _, name := range []string{"ab_aur.oifits", "ab_aur.oifits.gz"} {
		key, err := conv.Write(context.Background(), store, coll, name)
		require.NoError(t, err, name)
		assert.Equal(t, "runs/"+name, key)

		raw, err := store.Get(context.Background(), key)
		require.NoError(t, err)
		f, err := oifits.Decode(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, oifits.ImageCovariance, f.Names()[7])

		t3, ok := f.Table(oifits.TableT3)
		require.True(t, ok)
		flag, _ := t3.Column("FLAG")
		assert.Equal(t, []bool{false, true, false}, flag.Bools[12:15])
		amp, _ := t3.Column("T3AMP")
		assert.InDelta(t, 0.729, amp.Float(0, 0), 1e-12) // 0.9^3
	}
	assert.True(t, isGzip(t, store, "runs/ab_aur.oifits.gz"))
}

func TestWrite_LongestName(t *testing.T) {
	name := strings.Repeat("x", config.MaxNameLen-4) + "A'B"
	cfg, err := config.New(config.WithTarget(name, 1, 2))
	require.NoError(t, err)
	conv, err := nrmoifits.New(sevenHole, cfg)
	require.NoError(t, err)
	coll, err := conv.Build(channels(t, 1, spectral.NoClip), observable.Measurements{
		V2: uniform(1, 21, 1), V2Err: uniform(1, 21, 0),
		CP: uniform(1, 35, 0), CPErr: uniform(1, 35, 0),
	})
	require.NoError(t, err)

	store := archive.NewMemoryStore()
	key, err := conv.Write(context.Background(), store, coll, "long.oifits")
	require.NoError(t, err)
	raw, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	f, err := oifits.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	p := f.Primary()
	obj, _ := p.String("OBJECT")
	assert.Equal(t, name, obj)
}

func isGzip(t *testing.T, s archive.Store, key string) bool {
	t.Helper()
	raw, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return len(raw) > 2 && raw[0] == 0x1f && raw[1] == 0x8b
}

// corruptStore truncates every blob it returns.
type corruptStore struct {
	*archive.MemoryStore
}

func (c corruptStore) Get(ctx context.Context, name string) ([]byte, error) {
	b, err := c.MemoryStore.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return b[:len(b)/2], nil
}

func TestWrite_Errors(t *testing.T) {
	conv, err := nrmoifits.New(sevenHole, nil)
	require.NoError(t, err)
	coll, err := conv.Build(channels(t, 1, spectral.NoClip), observable.Measurements{
		V2: uniform(1, 21, 1), V2Err: uniform(1, 21, 0),
		CP: uniform(1, 35, 0), CPErr: uniform(1, 35, 0),
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = conv.Write(ctx, nil, coll, "x.oifits")
	assert.ErrorIs(t, err, nrmoifits.ErrNilStore)
	_, err = conv.Write(ctx, archive.NewMemoryStore(), nil, "x.oifits")
	assert.ErrorIs(t, err, nrmoifits.ErrNilCollection)
	_, err = conv.Write(ctx, corruptStore{archive.NewMemoryStore()}, coll, "x.oifits")
	assert.ErrorIs(t, err, nrmoifits.ErrReadback)
}

// writeTables writes v2, pha and cp tables for nch channels under prefix.
func writeTables(t *testing.T, prefix string, nch int) {
	t.Helper()
	row := func(n int, v string) string { return strings.TrimSpace(strings.Repeat(v+" ", n)) + "\n" }
	for ch := 0; ch < nch; ch++ {
		suffix := "_" + strconv.Itoa(ch) + ".txt"
		files := map[string]string{
			"v2":     row(21, "0.64"),
			"v2err":  row(21, "0.01"),
			"pha":    row(21, "0.0"),
			"phaerr": row(21, "0.0"),
			"cp":     row(35, "0.1"),
			"cperr":  row(35, "0.01"),
		}
		for kw, body := range files {
			require.NoError(t, os.WriteFile(prefix+kw+suffix, []byte(body), 0o644))
		}
	}
}

func TestBuildFromText_LocalStore(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "obs") + string(filepath.Separator)
	require.NoError(t, os.MkdirAll(prefix, 0o755))
	writeTables(t, prefix, 3)

	cfg, err := config.FromMap(map[string]string{"path": prefix, "object": "HD 142527", "TEL": "GEMINI"})
	require.NoError(t, err)
	conv, err := nrmoifits.New(sevenHole, cfg)
	require.NoError(t, err)

	coll, err := conv.BuildFromText(channels(t, 3, spectral.NoClip))
	require.NoError(t, err)
	assert.Len(t, coll.Vis2, 21)
	assert.InDelta(t, 0.512, coll.T3[0].Amp[2], 1e-12)

	key, err := conv.Write(context.Background(), archive.NewLocalStore(""), coll, "hd142527.oifits")
	require.NoError(t, err)
	assert.Equal(t, prefix+"hd142527.oifits", key)
	_, err = os.Stat(key)
	assert.NoError(t, err)

	_, err = conv.BuildFromText(channels(t, 4, spectral.NoClip))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "_3.txt")
}

func TestConverter_Metrics(t *testing.T) {
	m := &nrmoifits.BasicMetricsCollector{}
	cfg, err := config.New(config.WithPhaseCeil(0.05))
	require.NoError(t, err)
	conv, err := nrmoifits.New(sevenHole, cfg, nrmoifits.WithMetrics(m))
	require.NoError(t, err)

	coll, err := conv.Build(channels(t, 2, spectral.NoClip), observable.Measurements{
		V2: uniform(2, 21, 1), V2Err: uniform(2, 21, 0),
		CP: uniform(2, 35, 0.1), CPErr: uniform(2, 35, 0),
	})
	require.NoError(t, err)
	_, err = conv.Build(channels(t, 2, spectral.NoClip), observable.Measurements{})
	require.Error(t, err)

	_, err = conv.Write(context.Background(), archive.NewMemoryStore(), coll, "m.oifits")
	require.NoError(t, err)
	_, err = conv.Write(context.Background(), nil, coll, "m.oifits")
	require.Error(t, err)

	assert.Equal(t, int64(2), m.Builds.Load())
	assert.Equal(t, int64(1), m.BuildErrors.Load())
	assert.Equal(t, int64(70), m.FlaggedPhase.Load())
	assert.Equal(t, int64(2), m.Writes.Load())
	assert.Equal(t, int64(1), m.WriteErrors.Load())
	assert.Positive(t, m.BytesWritten.Load())
	assert.Zero(t, m.BytesWritten.Load()%2880)
}
