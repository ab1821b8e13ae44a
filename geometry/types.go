// SPDX-License-Identifier: MIT

package geometry

// Position is the 2-D centre of one mask hole, in metres, in the pupil plane.
type Position struct {
	X float64
	Y float64
}

// Pair labels a baseline by its two hole indices, I < J.
type Pair struct {
	I int
	J int
}

// Triple labels a closure triangle by its three hole indices, I < J < K.
type Triple struct {
	I int
	J int
	K int
}

// Edges returns the three pairs spanning the triangle in traversal order
// i→j, j→k, k→i. The last edge is reported with its endpoints swapped into
// ascending order so it can be looked up with PairIndex.
func (t Triple) Edges() [3]Pair {
	return [3]Pair{{I: t.I, J: t.J}, {I: t.J, J: t.K}, {I: t.I, J: t.K}}
}

// Baselines holds the per-baseline (u,v) table in canonical pair order.
// U, V and Labels are parallel slices of length PairCount(n).
type Baselines struct {
	U      []float64
	V      []float64
	Labels []Pair
}

// Len reports the number of baselines.
func (b Baselines) Len() int { return len(b.Labels) }

// Triangles holds the per-triangle (u,v) table in canonical triple order.
// (U1,V1) spans hole i→j and (U2,V2) spans hole j→k.
type Triangles struct {
	U1     []float64
	V1     []float64
	U2     []float64
	V2     []float64
	Labels []Triple
}

// Len reports the number of closure triangles.
func (t Triangles) Len() int { return len(t.Labels) }
