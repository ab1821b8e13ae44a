// SPDX-License-Identifier: MIT

package observable

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/katalvlaran/nrmoifits/closure"
	"github.com/katalvlaran/nrmoifits/geometry"
	"github.com/katalvlaran/nrmoifits/spectral"
)

// Input gathers everything Build needs. Channels is required.
type Input struct {
	Holes     int
	Baselines geometry.Baselines
	Triangles geometry.Triangles
	Channels  *spectral.Channels

	Target  Target
	Array   Array
	Date    time.Time
	IntTime float64

	// PhaseCeil flags closure phases with |cp| > PhaseCeil (radians).
	PhaseCeil float64

	Data Measurements
}

// Build validates in and returns a new Collection.
//
// Implementation:
//   - Stage 1: check geometry tables against Holes, target and array names,
//     and that Channels is set.
//   - Stage 2: align every array with the channel table (clip untrimmed
//     input) and check per-channel widths.
//   - Stage 3: recompute triple amplitudes from V2 per channel.
//   - Stage 4: transpose channel-major arrays into per-baseline and
//     per-triangle records; flag closure phases above the ceiling.
//
// Errors:
//   - ErrNoChannels, ErrGeometry, ErrInvalidName, ErrShapeMismatch (names
//     the quantity and both dimensions), closure errors.
func Build(in Input) (*Collection, error) {
	if in.Channels == nil {
		return nil, ErrNoChannels
	}
	nbl, ncp := in.Baselines.Len(), in.Triangles.Len()
	if nbl != geometry.PairCount(in.Holes) || ncp != geometry.TripleCount(in.Holes) {
		return nil, fmt.Errorf("%d holes with %d baselines and %d triangles: %w", in.Holes, nbl, ncp, ErrGeometry)
	}
	b, tr := in.Baselines, in.Triangles
	if len(b.U) != nbl || len(b.V) != nbl {
		return nil, fmt.Errorf("baseline u/v %d/%d, want %d: %w", len(b.U), len(b.V), nbl, ErrGeometry)
	}
	for _, n := range []int{len(tr.U1), len(tr.V1), len(tr.U2), len(tr.V2)} {
		if n != ncp {
			return nil, fmt.Errorf("triangle u/v length %d, want %d: %w", n, ncp, ErrGeometry)
		}
	}
	if err := checkName("target", in.Target.Name); err != nil {
		return nil, err
	}
	if err := checkName("array", in.Array.Name); err != nil {
		return nil, err
	}

	d := in.Data
	v2, err := align(in.Channels, "v2", d.V2, nbl)
	if err != nil {
		return nil, err
	}
	v2err, err := align(in.Channels, "v2err", d.V2Err, nbl)
	if err != nil {
		return nil, err
	}
	cp, err := align(in.Channels, "cp", d.CP, ncp)
	if err != nil {
		return nil, err
	}
	cperr, err := align(in.Channels, "cperr", d.CPErr, ncp)
	if err != nil {
		return nil, err
	}
	pha, phaerr := zeros(in.Channels.Len(), nbl), zeros(in.Channels.Len(), nbl)
	if d.Pha != nil || d.PhaErr != nil {
		if pha, err = align(in.Channels, "pha", d.Pha, nbl); err != nil {
			return nil, err
		}
		if phaerr, err = align(in.Channels, "phaerr", d.PhaErr, nbl); err != nil {
			return nil, err
		}
	}

	t3amp, t3amperr, err := closure.Propagate(v2, v2err, in.Triangles.Labels, in.Holes)
	if err != nil {
		return nil, fmt.Errorf("triple amplitudes: %w", err)
	}

	out := &Collection{
		Target:   in.Target,
		Array:    in.Array,
		Channels: in.Channels,
		Date:     in.Date,
		IntTime:  in.IntTime,
		Vis2:     make([]Vis2Record, nbl),
		Vis:      make([]VisRecord, nbl),
		T3:       make([]T3Record, ncp),
	}
	for q := 0; q < nbl; q++ {
		flags := make([]bool, in.Channels.Len())
		out.Vis2[q] = Vis2Record{
			Baseline: in.Baselines.Labels[q],
			U:        in.Baselines.U[q],
			V:        in.Baselines.V[q],
			Vis2:     column(v2, q),
			Vis2Err:  column(v2err, q),
			Flags:    flags,
		}
		out.Vis[q] = VisRecord{
			Baseline: in.Baselines.Labels[q],
			U:        in.Baselines.U[q],
			V:        in.Baselines.V[q],
			Amp:      sqrtAll(column(v2, q)),
			AmpErr:   sqrtAll(column(v2err, q)),
			Phi:      column(pha, q),
			PhiErr:   column(phaerr, q),
			Flags:    append([]bool(nil), flags...),
		}
	}
	for i := 0; i < ncp; i++ {
		phi := column(cp, i)
		out.T3[i] = T3Record{
			Triangle: in.Triangles.Labels[i],
			U1:       in.Triangles.U1[i],
			V1:       in.Triangles.V1[i],
			U2:       in.Triangles.U2[i],
			V2:       in.Triangles.V2[i],
			Amp:      column(t3amp, i),
			AmpErr:   column(t3amperr, i),
			Phi:      phi,
			PhiErr:   column(cperr, i),
			Flags:    PhaseFlags(phi, in.PhaseCeil),
		}
	}

	return out, nil
}

// PhaseFlags marks every phase whose magnitude strictly exceeds ceil.
// A phase equal to the ceiling is not flagged; NaN is not flagged.
func PhaseFlags(phi []float64, ceil float64) []bool {
	out := make([]bool, len(phi))
	for i, p := range phi {
		out[i] = math.Abs(p) > ceil
	}

	return out
}

// WithVis2Flags returns a copy of c whose squared-visibility and
// visibility records carry flags[channel][baseline].
func (c *Collection) WithVis2Flags(flags [][]bool) (*Collection, error) {
	if len(flags) != c.Channels.Len() {
		return nil, fmt.Errorf("vis2 flags: %d channels, want %d: %w", len(flags), c.Channels.Len(), ErrShapeMismatch)
	}
	for ch, row := range flags {
		if len(row) != len(c.Vis2) {
			return nil, fmt.Errorf("vis2 flags channel %d: %d baselines, want %d: %w", ch, len(row), len(c.Vis2), ErrShapeMismatch)
		}
	}

	out := *c
	out.Vis2 = append([]Vis2Record(nil), c.Vis2...)
	out.Vis = append([]VisRecord(nil), c.Vis...)
	for q := range out.Vis2 {
		col := make([]bool, len(flags))
		for ch := range flags {
			col[ch] = flags[ch][q]
		}
		out.Vis2[q].Flags = col
		out.Vis[q].Flags = append([]bool(nil), col...)
	}

	return &out, nil
}

// checkName rejects names that do not fit a header card as printable ASCII.
func checkName(what, v string) error {
	for i := 0; i < len(v); i++ {
		if v[i] < 0x20 || v[i] > 0x7e {
			return fmt.Errorf("%s name %q: %w", what, v, ErrInvalidName)
		}
	}
	if len(v)+strings.Count(v, "'") > MaxNameLen {
		return fmt.Errorf("%s name longer than %d characters: %w", what, MaxNameLen, ErrInvalidName)
	}

	return nil
}

// align trims rows to the channel table and checks every row has width values.
func align(ch *spectral.Channels, name string, rows [][]float64, width int) ([][]float64, error) {
	trimmed, err := ch.Trim(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, ErrShapeMismatch, err)
	}
	for i, row := range trimmed {
		if len(row) != width {
			return nil, fmt.Errorf("%s channel %d: %d values, want %d: %w", name, i, len(row), width, ErrShapeMismatch)
		}
	}

	return trimmed, nil
}

// column copies column q of a channel-major array.
func column(rows [][]float64, q int) []float64 {
	out := make([]float64, len(rows))
	for ch, row := range rows {
		out[ch] = row[q]
	}

	return out
}

func zeros(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}

	return out
}

func sqrtAll(in []float64) []float64 {
	for i, v := range in {
		in[i] = math.Sqrt(v)
	}

	return in
}
