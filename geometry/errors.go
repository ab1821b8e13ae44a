// SPDX-License-Identifier: MIT

package geometry

import "errors"

var (
	// ErrIndexOutOfRange indicates a hole index outside [0, n).
	ErrIndexOutOfRange = errors.New("geometry: hole index out of range")

	// ErrSameHole indicates a pair lookup with identical endpoints; a hole
	// does not form a baseline with itself.
	ErrSameHole = errors.New("geometry: pair endpoints must differ")
)
