// SPDX-License-Identifier: MIT

// Package spectral configures the wavelength channels of an observation:
// central wavelengths, effective bandwidths and an optional clip that drops
// channels from either end of the band.
package spectral

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmpty indicates no wavelengths were given.
	ErrEmpty = errors.New("spectral: no wavelengths")

	// ErrLengthMismatch indicates wavelength and bandwidth slices differ in length.
	ErrLengthMismatch = errors.New("spectral: wavelength/bandwidth length mismatch")

	// ErrNegativeClip indicates a clip count below zero.
	ErrNegativeClip = errors.New("spectral: clip must be non-negative")

	// ErrClipTooLarge indicates a clip that would remove every channel.
	ErrClipTooLarge = errors.New("spectral: clip removes all channels")

	// ErrNonFinite indicates a NaN or ±Inf wavelength or bandwidth.
	ErrNonFinite = errors.New("spectral: non-finite wavelength or bandwidth")

	// ErrRowCount indicates a caller array whose channel count matches
	// neither the clipped nor the unclipped band.
	ErrRowCount = errors.New("spectral: channel count mismatch")
)

// Clip removes Low channels from the blue end and High channels from the red end.
type Clip struct {
	Low  int
	High int
}

// NoClip keeps every channel.
var NoClip = Clip{}

// Symmetric removes c channels from each end.
func Symmetric(c int) Clip { return Clip{Low: c, High: c} }

// Asymmetric removes low channels from the start and high from the end.
func Asymmetric(low, high int) Clip { return Clip{Low: low, High: high} }

// Total returns the number of channels removed.
func (c Clip) Total() int { return c.Low + c.High }

// Channels is an immutable, clipped wavelength table.
type Channels struct {
	wavelengths []float64
	bandwidths  []float64
	clip        Clip
	original    int
}

// New validates wls and band and applies clip.
//
// Errors:
//   - ErrEmpty, ErrLengthMismatch, ErrNonFinite on bad input.
//   - ErrNegativeClip for Low or High below zero.
//   - ErrClipTooLarge when clip.Total() >= len(wls).
func New(wls, band []float64, clip Clip) (*Channels, error) {
	if len(wls) == 0 {
		return nil, ErrEmpty
	}
	if len(wls) != len(band) {
		return nil, fmt.Errorf("%d wavelengths vs %d bandwidths: %w", len(wls), len(band), ErrLengthMismatch)
	}
	if clip.Low < 0 || clip.High < 0 {
		return nil, fmt.Errorf("clip %+v: %w", clip, ErrNegativeClip)
	}
	if clip.Total() >= len(wls) {
		return nil, fmt.Errorf("clip %+v of %d channels: %w", clip, len(wls), ErrClipTooLarge)
	}
	for i := range wls {
		if !finite(wls[i]) || !finite(band[i]) {
			return nil, fmt.Errorf("channel %d: %w", i, ErrNonFinite)
		}
	}

	hi := len(wls) - clip.High

	return &Channels{
		wavelengths: append([]float64(nil), wls[clip.Low:hi]...),
		bandwidths:  append([]float64(nil), band[clip.Low:hi]...),
		clip:        clip,
		original:    len(wls),
	}, nil
}

// Uniform builds a single-bandwidth table: every channel gets width
// (last-first)/n, or 1 for a monochromatic band.
func Uniform(wls []float64, clip Clip) (*Channels, error) {
	band := make([]float64, len(wls))
	width := 1.0
	if len(wls) > 1 {
		width = math.Abs(wls[len(wls)-1]-wls[0]) / float64(len(wls))
	}
	for i := range band {
		band[i] = width
	}

	return New(wls, band, clip)
}

// Len returns the number of channels after clipping.
func (c *Channels) Len() int { return len(c.wavelengths) }

// Original returns the number of channels before clipping.
func (c *Channels) Original() int { return c.original }

// Clip returns the clip applied at construction.
func (c *Channels) Clip() Clip { return c.clip }

// Wavelengths returns a copy of the clipped wavelengths.
func (c *Channels) Wavelengths() []float64 { return append([]float64(nil), c.wavelengths...) }

// Bandwidths returns a copy of the clipped effective bandwidths.
func (c *Channels) Bandwidths() []float64 { return append([]float64(nil), c.bandwidths...) }

// Trim aligns a caller array with the channel table. Rows already matching
// Len() are returned as-is (pre-trimmed); rows matching Original() are
// clipped; anything else is ErrRowCount.
func (c *Channels) Trim(rows [][]float64) ([][]float64, error) {
	switch len(rows) {
	case c.Len():
		return rows, nil
	case c.original:
		return rows[c.clip.Low : c.original-c.clip.High], nil
	default:
		return nil, fmt.Errorf("got %d channels, want %d (clipped) or %d (unclipped): %w",
			len(rows), c.Len(), c.original, ErrRowCount)
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
