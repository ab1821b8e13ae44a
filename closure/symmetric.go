// SPDX-License-Identifier: MIT

package closure

import (
	"fmt"

	"github.com/katalvlaran/nrmoifits/geometry"
	"github.com/katalvlaran/nrmoifits/matrix"
)

// SymmetricAmplitudes scatters a flat, canonically ordered baseline list
// into an n×n symmetric matrix with M[p,q] = M[q,p] = flat[PairIndex(p,q)]
// and a zero diagonal.
//
// Implementation:
//   - Stage 1: validate n ≥ 1 and len(flat) == PairCount(n).
//   - Stage 2: walk geometry.Pairs(n); row h receives its n-1-h values.
//   - Stage 3: mirror by M + Mᵀ (the diagonal stays zero).
//
// The matrix accepts NaN so that a bad sample poisons only the triangles
// touching its baseline.
//
// Complexity:
//   - Time O(n²), Space O(n²).
func SymmetricAmplitudes(flat []float64, n int) (*matrix.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("SymmetricAmplitudes n=%d: %w", n, ErrTooFewHoles)
	}
	if len(flat) != geometry.PairCount(n) {
		return nil, fmt.Errorf("SymmetricAmplitudes: got %d values, want %d for n=%d: %w",
			len(flat), geometry.PairCount(n), n, ErrLengthMismatch)
	}

	upper, err := matrix.NewDense(n, n, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("SymmetricAmplitudes: %w", err)
	}
	for k, p := range geometry.Pairs(n) {
		if err = upper.Set(p.I, p.J, flat[k]); err != nil {
			return nil, fmt.Errorf("SymmetricAmplitudes: %w", err)
		}
	}

	lower, err := matrix.Transpose(upper)
	if err != nil {
		return nil, fmt.Errorf("SymmetricAmplitudes: %w", err)
	}
	full, err := matrix.Add(upper, lower)
	if err != nil {
		return nil, fmt.Errorf("SymmetricAmplitudes: %w", err)
	}

	return full.(*matrix.Dense), nil
}
