// SPDX-License-Identifier: MIT

package observable

import "errors"

var (
	// ErrShapeMismatch indicates an array whose channel or baseline/triangle
	// count disagrees with the channel table or mask geometry.
	ErrShapeMismatch = errors.New("observable: shape mismatch")

	// ErrNoChannels indicates Build was called without a channel table.
	ErrNoChannels = errors.New("observable: spectral channels are required")

	// ErrGeometry indicates baseline/triangle tables inconsistent with the hole count.
	ErrGeometry = errors.New("observable: geometry tables do not match hole count")

	// ErrInvalidName indicates a target or array name that cannot be written
	// as a header card value.
	ErrInvalidName = errors.New("observable: invalid name")
)
