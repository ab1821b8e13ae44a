// SPDX-License-Identifier: MIT

package geometry

// EnumerateBaselines derives the baseline (u,v) table of a mask.
// For every canonical pair (i,j): u = pos[i].X - pos[j].X, v = pos[i].Y - pos[j].Y.
// Fewer than two holes yield an empty table.
func EnumerateBaselines(pos []Position) Baselines {
	labels := Pairs(len(pos))
	out := Baselines{
		U:      make([]float64, len(labels)),
		V:      make([]float64, len(labels)),
		Labels: labels,
	}
	for n, p := range labels {
		out.U[n] = pos[p.I].X - pos[p.J].X
		out.V[n] = pos[p.I].Y - pos[p.J].Y
	}

	return out
}

// EnumerateTriangles derives the closure-triangle (u,v) table of a mask.
// For every canonical triple (i,j,k) the first vector spans i→j and the
// second spans j→k. Fewer than three holes yield an empty table.
func EnumerateTriangles(pos []Position) Triangles {
	labels := Triples(len(pos))
	out := Triangles{
		U1:     make([]float64, len(labels)),
		V1:     make([]float64, len(labels)),
		U2:     make([]float64, len(labels)),
		V2:     make([]float64, len(labels)),
		Labels: labels,
	}
	for n, t := range labels {
		out.U1[n] = pos[t.I].X - pos[t.J].X
		out.V1[n] = pos[t.I].Y - pos[t.J].Y
		out.U2[n] = pos[t.J].X - pos[t.K].X
		out.V2[n] = pos[t.J].Y - pos[t.K].Y
	}

	return out
}
