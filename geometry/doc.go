// SPDX-License-Identifier: MIT

// Package geometry enumerates the baselines and closure triangles of a
// non-redundant aperture mask and derives their (u,v) coordinates.
//
// What & Why:
//
//	Every derived table in nrmoifits is indexed by the CANONICAL ORDER of
//	hole pairs and hole triples. The order is produced here, once, by
//	Pairs and Triples; the baseline/triangle enumerators, the symmetric
//	amplitude reconstruction and the triple-product propagation all
//	iterate those two generators instead of re-deriving nested loops.
//
// Canonical order:
//
//	Pairs(n):   (a, a+b+1)            for a ∈ [0, n-2], b ∈ [0, n-a-2]
//	Triples(n): (i, i+j+1, i+j+k+2)   for i ∈ [0, n-3], j ∈ [0, n-i-3], k ∈ [0, n-i-j-3]
//
//	For n=4 the pairs are (0,1) (0,2) (0,3) (1,2) (1,3) (2,3) and the
//	triples are (0,1,2) (0,1,3) (0,2,3) (1,2,3).
//
// Complexity:
//
//	Pairs: O(n²). Triples: O(n³). Both allocate exactly once.
package geometry
