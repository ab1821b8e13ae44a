// SPDX-License-Identifier: MIT

// Package matrix provides the small dense linear-algebra surface used by
// nrmoifits: a row-major Dense matrix with safe accessors, element-wise
// Add, Transpose, and centralized validators.
//
// Usage:
//
//	Per-baseline visibility amplitudes are scattered into an N×N symmetric
//	matrix so that triangle edges can be looked up by hole index. The
//	matrix also carries the optional covariance block written to the
//	output file.
//
// Numeric policy:
//
//	By default Set rejects NaN and ±Inf (DefaultValidateNaNInf). Amplitude
//	matrices are built with WithNoValidateNaNInf; NaN measurements
//	propagate into derived quantities.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone/Add/Transpose: O(r*c).
package matrix
