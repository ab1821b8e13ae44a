// SPDX-License-Identifier: MIT

package geometry

import "math"

// Rotate returns a copy of pos rotated counter-clockwise by theta radians.
// The input slice is not modified.
func Rotate(pos []Position, theta float64) []Position {
	c, s := math.Cos(theta), math.Sin(theta)
	out := make([]Position, len(pos))
	for i, p := range pos {
		out[i] = Position{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y}
	}

	return out
}

// FlipY returns a copy of pos mirrored about the x axis (y → -y).
func FlipY(pos []Position) []Position {
	out := make([]Position, len(pos))
	for i, p := range pos {
		out[i] = Position{X: p.X, Y: -p.Y}
	}

	return out
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }
