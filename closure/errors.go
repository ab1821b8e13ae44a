// SPDX-License-Identifier: MIT

package closure

import "errors"

var (
	// ErrLengthMismatch indicates a flat baseline list whose length is not
	// n(n-1)/2, or value/error slices of different lengths.
	ErrLengthMismatch = errors.New("closure: baseline list length mismatch")

	// ErrBadTriangle indicates a triangle label referencing a hole outside [0, n).
	ErrBadTriangle = errors.New("closure: triangle references unknown hole")

	// ErrTooFewHoles indicates a mask with no holes at all.
	ErrTooFewHoles = errors.New("closure: mask must have at least one hole")
)
