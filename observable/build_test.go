// SPDX-License-Identifier: MIT

package observable_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/nrmoifits/geometry"
	"github.com/katalvlaran/nrmoifits/observable"
	"github.com/katalvlaran/nrmoifits/spectral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = []geometry.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

// fill returns rows × cols filled with v.
func fill(rows, cols int, v float64) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = v
		}
	}
	return out
}

// squareInput builds a 4-hole input with nch channels and constant data.
func squareInput(t *testing.T, nch int, clip spectral.Clip) observable.Input {
	t.Helper()
	wls := make([]float64, nch)
	for i := range wls {
		wls[i] = 1e-6 + float64(i)*1e-8
	}
	ch, err := spectral.Uniform(wls, clip)
	require.NoError(t, err)
	return observable.Input{
		Holes:     len(square),
		Baselines: geometry.EnumerateBaselines(square),
		Triangles: geometry.EnumerateTriangles(square),
		Channels:  ch,
		Target:    observable.NewTarget("HD 1234", 10, -20),
		Array:     observable.PlaceholderArray("MASK"),
		Date:      time.Date(2014, 5, 14, 0, 0, 0, 0, time.UTC),
		IntTime:   1e-5,
		PhaseCeil: 1e10,
		Data: observable.Measurements{
			V2:    fill(nch, 6, 0.25),
			V2Err: fill(nch, 6, 0.01),
			CP:    fill(nch, 4, 0.1),
			CPErr: fill(nch, 4, 0.02),
		},
	}
}

func TestBuild_Records(t *testing.T) {
	in := squareInput(t, 3, spectral.NoClip)
	c, err := observable.Build(in)
	require.NoError(t, err)

	require.Len(t, c.Vis2, 6)
	require.Len(t, c.Vis, 6)
	require.Len(t, c.T3, 4)
	assert.Equal(t, "HD 1234", c.Target.Name)
	assert.Equal(t, "GEOCENTRIC", c.Array.Frame)

	for q, r := range c.Vis2 {
		assert.Equal(t, in.Baselines.Labels[q], r.Baseline)
		assert.Equal(t, in.Baselines.U[q], r.U)
		assert.Equal(t, []float64{0.25, 0.25, 0.25}, r.Vis2)
		assert.Equal(t, []bool{false, false, false}, r.Flags)
		assert.Equal(t, [2]int{0, 0}, r.Stations)
	}
	for _, r := range c.Vis {
		assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5}, r.Amp, 1e-12)
		assert.InDeltaSlice(t, []float64{0.1, 0.1, 0.1}, r.AmpErr, 1e-12)
		assert.Equal(t, []float64{0, 0, 0}, r.Phi)
	}
	for i, r := range c.T3 {
		assert.Equal(t, in.Triangles.Labels[i], r.Triangle)
		assert.Equal(t, in.Triangles.V2[i], r.V2)
		// 0.5^3 and sqrt(3 * 0.1^2)
		assert.InDeltaSlice(t, []float64{0.125, 0.125, 0.125}, r.Amp, 1e-12)
		assert.InDelta(t, math.Sqrt(0.03), r.AmpErr[0], 1e-12)
		assert.Equal(t, []float64{0.1, 0.1, 0.1}, r.Phi)
		assert.Equal(t, []bool{false, false, false}, r.Flags)
	}
}

func TestBuild_ClipsUntrimmedInput(t *testing.T) {
	in := squareInput(t, 5, spectral.Symmetric(1))
	in.Data.V2[0][0] = 99 // clipped away
	in.Data.V2[1][0] = 0.81
	c, err := observable.Build(in)
	require.NoError(t, err)
	require.Equal(t, 3, c.Channels.Len())
	assert.Equal(t, []float64{0.81, 0.25, 0.25}, c.Vis2[0].Vis2)
}

func TestBuild_PhaseCeiling(t *testing.T) {
	in := squareInput(t, 2, spectral.NoClip)
	in.PhaseCeil = 0.5
	in.Data.CP[0][1] = 0.5  // equal: not flagged
	in.Data.CP[1][1] = -0.6 // above in magnitude
	c, err := observable.Build(in)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, c.T3[1].Flags)
	assert.Equal(t, []bool{false, false}, c.T3[0].Flags)
}

func TestBuild_Errors(t *testing.T) {
	in := squareInput(t, 2, spectral.NoClip)
	in.Channels = nil
	_, err := observable.Build(in)
	assert.ErrorIs(t, err, observable.ErrNoChannels)

	in = squareInput(t, 2, spectral.NoClip)
	in.Holes = 5
	_, err = observable.Build(in)
	assert.ErrorIs(t, err, observable.ErrGeometry)

	in = squareInput(t, 2, spectral.NoClip)
	in.Baselines.V = in.Baselines.V[:5]
	_, err = observable.Build(in)
	assert.ErrorIs(t, err, observable.ErrGeometry)

	for _, cut := range []func(*geometry.Triangles){
		func(tr *geometry.Triangles) { tr.U1 = tr.U1[:3] },
		func(tr *geometry.Triangles) { tr.V1 = nil },
		func(tr *geometry.Triangles) { tr.U2 = tr.U2[:1] },
		func(tr *geometry.Triangles) { tr.V2 = tr.V2[:3] },
	} {
		in = squareInput(t, 2, spectral.NoClip)
		cut(&in.Triangles)
		_, err = observable.Build(in)
		assert.ErrorIs(t, err, observable.ErrGeometry)
	}

	in = squareInput(t, 2, spectral.NoClip)
	in.Target.Name = "β Pic"
	_, err = observable.Build(in)
	assert.ErrorIs(t, err, observable.ErrInvalidName)

	in = squareInput(t, 2, spectral.NoClip)
	in.Array.Name = strings.Repeat("m", observable.MaxNameLen+1)
	_, err = observable.Build(in)
	assert.ErrorIs(t, err, observable.ErrInvalidName)

	in = squareInput(t, 2, spectral.NoClip)
	in.Data.CP = fill(2, 3, 0)
	_, err = observable.Build(in)
	assert.ErrorIs(t, err, observable.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "cp")

	in = squareInput(t, 2, spectral.NoClip)
	in.Data.V2Err = fill(4, 6, 0)
	_, err = observable.Build(in)
	assert.ErrorIs(t, err, observable.ErrShapeMismatch)
	assert.ErrorIs(t, err, spectral.ErrRowCount)
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	in := squareInput(t, 2, spectral.NoClip)
	c, err := observable.Build(in)
	require.NoError(t, err)
	c.Vis2[0].Vis2[0] = -1
	assert.Equal(t, 0.25, in.Data.V2[0][0])
}

func TestWithVis2Flags(t *testing.T) {
	c, err := observable.Build(squareInput(t, 2, spectral.NoClip))
	require.NoError(t, err)

	flags := [][]bool{make([]bool, 6), make([]bool, 6)}
	flags[1][3] = true
	f, err := c.WithVis2Flags(flags)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, f.Vis2[3].Flags)
	assert.Equal(t, []bool{false, true}, f.Vis[3].Flags)
	assert.Equal(t, []bool{false, false}, c.Vis2[3].Flags, "original untouched")

	_, err = c.WithVis2Flags(flags[:1])
	assert.ErrorIs(t, err, observable.ErrShapeMismatch)
	_, err = c.WithVis2Flags([][]bool{make([]bool, 6), make([]bool, 5)})
	assert.ErrorIs(t, err, observable.ErrShapeMismatch)
}

func TestPhaseFlags(t *testing.T) {
	got := observable.PhaseFlags([]float64{0, 1, -2, math.NaN(), 2}, 1.5)
	assert.Equal(t, []bool{false, false, true, false, true}, got)
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "obj_")
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(prefix+name, []byte(body), 0o644))
	}
	for ch := 0; ch < 2; ch++ {
		s := string(rune('0' + ch))
		write("v2_"+s+".txt", "0.1 0.2 0.3\n0.4 0.5 0.6\n")
		write("v2err_"+s+".txt", "0 0 0 0 0 0\n")
		write("pha_"+s+".txt", "1 2 3 4 5 6\n")
		write("phaerr_"+s+".txt", "0 0 0 0 0 0\n")
		write("cp_"+s+".txt", "0.1 0.2 0.3 0.4\n")
		write("cperr_"+s+".txt", "# err\n0 0 0 0\n")
	}

	m, err := observable.LoadText(prefix, 2, 6, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, m.V2[1])
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, m.Pha[0])
	assert.Len(t, m.CPErr[1], 4)

	require.NoError(t, os.Remove(prefix+"cp_1.txt"))
	_, err = observable.LoadText(prefix, 2, 6, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cp_1.txt")
}
