// SPDX-License-Identifier: MIT

// Package closure rebuilds the symmetric per-hole-pair amplitude matrix from
// a flat baseline list and propagates squared visibilities into closure
// triangle (triple-product) amplitudes and errors.
//
// Both steps consume the canonical order of package geometry; nothing here
// re-derives index arithmetic.
//
// Error model:
//
//	Triple errors are the quadrature sum of the three edge errors, assuming
//	independent baselines (no covariance term). NaN inputs propagate to NaN
//	outputs rather than raising.
package closure
