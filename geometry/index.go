// SPDX-License-Identifier: MIT

package geometry

import "fmt"

// PairCount returns n(n-1)/2, the number of baselines of an n-hole mask.
// Non-positive and single-hole masks have no baselines.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}

	return n * (n - 1) / 2
}

// TripleCount returns C(n,3), the number of closure triangles of an n-hole mask.
func TripleCount(n int) int {
	if n < 3 {
		return 0
	}

	return n * (n - 1) * (n - 2) / 6
}

// Pairs returns every hole pair of an n-hole mask in canonical order.
//
// Implementation:
//   - Stage 1: allocate exactly PairCount(n) labels.
//   - Stage 2: outer index a ascending, offset b ascending, emit (a, a+b+1).
//
// Determinism:
//   - Fixed a→b loop order; the result for a given n never changes.
//
// Complexity:
//   - Time O(n²), Space O(n²).
func Pairs(n int) []Pair {
	out := make([]Pair, 0, PairCount(n))
	for a := 0; a < n-1; a++ {
		for b := 0; b < n-a-1; b++ {
			out = append(out, Pair{I: a, J: a + b + 1})
		}
	}

	return out
}

// Triples returns every hole triple of an n-hole mask in canonical order,
// which is ascending lexicographic order with strictly ascending indices
// inside each triple.
//
// Determinism:
//   - Fixed i→j→k loop order mirroring the index arithmetic of Pairs.
//
// Complexity:
//   - Time O(n³), Space O(n³).
func Triples(n int) []Triple {
	out := make([]Triple, 0, TripleCount(n))
	for i := 0; i < n-2; i++ {
		for j := 0; j < n-i-2; j++ {
			for k := 0; k < n-i-j-2; k++ {
				out = append(out, Triple{I: i, J: i + j + 1, K: i + j + k + 2})
			}
		}
	}

	return out
}

// PairIndex returns the flat position of the unordered pair {p,q} inside
// Pairs(n). Endpoints may be given in either order.
//
// Row h of the upper triangle starts after the n-1, n-2, ..., n-h entries
// of the rows above it, so the offset of (h, q) is h*n - h(h+1)/2 + (q-h-1).
//
// Errors:
//   - ErrIndexOutOfRange if p or q is outside [0, n).
//   - ErrSameHole if p == q.
func PairIndex(n, p, q int) (int, error) {
	if p < 0 || q < 0 || p >= n || q >= n {
		return 0, fmt.Errorf("PairIndex(%d,%d) n=%d: %w", p, q, n, ErrIndexOutOfRange)
	}
	if p == q {
		return 0, fmt.Errorf("PairIndex(%d,%d): %w", p, q, ErrSameHole)
	}
	if p > q {
		p, q = q, p
	}

	return p*n - p*(p+1)/2 + (q - p - 1), nil
}
