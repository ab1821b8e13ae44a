// SPDX-License-Identifier: MIT

// Package observable assembles OIFITS-ready records from calibrated
// measurements: one squared-visibility record and one visibility record per
// baseline, one triple-product record per closure triangle.
//
// Build is a pure function. It validates every array against the mask
// geometry and the spectral channel table, recomputes triple amplitudes
// from the squared visibilities (there is no way to supply them), applies
// the closure-phase ceiling, and returns a new Collection. Collections are
// never mutated; WithVis2Flags returns a modified copy.
//
// Measurements come either directly as [channel × baseline|triangle]
// arrays or from text tables via LoadText.
package observable
