// SPDX-License-Identifier: MIT

package closure

import (
	"fmt"
	"math"

	"github.com/katalvlaran/nrmoifits/geometry"
	"github.com/katalvlaran/nrmoifits/matrix"
)

// TripleAmplitudes derives per-triangle amplitudes and errors for one
// spectral channel.
//
// Inputs:
//   - v2, v2err: squared visibilities and their errors in canonical
//     baseline order (len == PairCount(n)). Both are square-rooted into the
//     amplitude domain before use.
//   - tri: triangle labels, normally geometry.Triples(n).
//   - n: number of holes.
//
// For each triangle (i,j,k):
//
//	amp = A[i,j] · A[j,k] · A[k,i]
//	err = sqrt(E[i,j]² + E[j,k]² + E[k,i]²)
//
// Errors:
//   - ErrLengthMismatch, ErrBadTriangle, ErrTooFewHoles.
func TripleAmplitudes(v2, v2err []float64, tri []geometry.Triple, n int) ([]float64, []float64, error) {
	if len(v2) != len(v2err) {
		return nil, nil, fmt.Errorf("TripleAmplitudes: %d values vs %d errors: %w", len(v2), len(v2err), ErrLengthMismatch)
	}
	amp := make([]float64, len(tri))
	sigma := make([]float64, len(tri))
	if len(tri) == 0 {
		return amp, sigma, nil
	}

	a, err := SymmetricAmplitudes(sqrtAll(v2), n)
	if err != nil {
		return nil, nil, fmt.Errorf("TripleAmplitudes: values: %w", err)
	}
	e, err := SymmetricAmplitudes(sqrtAll(v2err), n)
	if err != nil {
		return nil, nil, fmt.Errorf("TripleAmplitudes: errors: %w", err)
	}

	var ea, eb, ec [3]float64
	for t, tr := range tri {
		if tr.I < 0 || tr.K >= n || tr.I >= tr.J || tr.J >= tr.K {
			return nil, nil, fmt.Errorf("TripleAmplitudes: triangle %d %v n=%d: %w", t, tr, n, ErrBadTriangle)
		}
		if ea, err = edges(a, tr); err != nil {
			return nil, nil, fmt.Errorf("TripleAmplitudes: %w", err)
		}
		if eb, err = edges(e, tr); err != nil {
			return nil, nil, fmt.Errorf("TripleAmplitudes: %w", err)
		}
		amp[t] = ea[0] * ea[1] * ea[2]
		ec = [3]float64{eb[0] * eb[0], eb[1] * eb[1], eb[2] * eb[2]}
		sigma[t] = math.Sqrt(ec[0] + ec[1] + ec[2])
	}

	return amp, sigma, nil
}

// Propagate runs TripleAmplitudes once per spectral channel and returns
// channel × triangle arrays of amplitudes and errors.
func Propagate(v2, v2err [][]float64, tri []geometry.Triple, n int) ([][]float64, [][]float64, error) {
	if len(v2) != len(v2err) {
		return nil, nil, fmt.Errorf("Propagate: %d value channels vs %d error channels: %w", len(v2), len(v2err), ErrLengthMismatch)
	}
	amp := make([][]float64, len(v2))
	sigma := make([][]float64, len(v2))
	var err error
	for ch := range v2 {
		amp[ch], sigma[ch], err = TripleAmplitudes(v2[ch], v2err[ch], tri, n)
		if err != nil {
			return nil, nil, fmt.Errorf("Propagate channel %d: %w", ch, err)
		}
	}

	return amp, sigma, nil
}

// edges reads the three matrix entries spanning tr in order i→j, j→k, k→i.
func edges(m *matrix.Dense, tr geometry.Triple) ([3]float64, error) {
	var out [3]float64
	var err error
	if out[0], err = m.At(tr.I, tr.J); err != nil {
		return out, err
	}
	if out[1], err = m.At(tr.J, tr.K); err != nil {
		return out, err
	}
	if out[2], err = m.At(tr.K, tr.I); err != nil {
		return out, err
	}

	return out, nil
}

// sqrtAll returns element-wise square roots; negative inputs become NaN.
func sqrtAll(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = math.Sqrt(v)
	}

	return out
}
