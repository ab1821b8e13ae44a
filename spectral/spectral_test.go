// SPDX-License-Identifier: MIT

package spectral_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/nrmoifits/spectral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func band(n int) ([]float64, []float64) {
	wls := make([]float64, n)
	bw := make([]float64, n)
	for i := range wls {
		wls[i] = 1.5e-6 + float64(i)*1e-8
		bw[i] = 1e-8
	}
	return wls, bw
}

// TestNew_NoClip keeps every channel and copies the input.
func TestNew_NoClip(t *testing.T) {
	wls, bw := band(5)
	ch, err := spectral.New(wls, bw, spectral.NoClip)
	require.NoError(t, err)
	assert.Equal(t, 5, ch.Len())
	assert.Equal(t, wls, ch.Wavelengths())

	wls[0] = 0
	assert.NotEqual(t, 0.0, ch.Wavelengths()[0], "channels must not alias the input")
}

// TestNew_ClipBoundaries verifies exact removal counts for symmetric and asymmetric clips.
func TestNew_ClipBoundaries(t *testing.T) {
	wls, bw := band(37)
	tests := []struct {
		name string
		clip spectral.Clip
		want int
		lo   float64
	}{
		{"symmetric 3", spectral.Symmetric(3), 31, wls[3]},
		{"asymmetric 2,5", spectral.Asymmetric(2, 5), 30, wls[2]},
		{"low only", spectral.Asymmetric(4, 0), 33, wls[4]},
		{"high only", spectral.Asymmetric(0, 4), 33, wls[0]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ch, err := spectral.New(wls, bw, tc.clip)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ch.Len())
			assert.Equal(t, 37-tc.clip.Total(), ch.Len())
			assert.Equal(t, tc.lo, ch.Wavelengths()[0])
			assert.Equal(t, wls[36-tc.clip.High], ch.Wavelengths()[ch.Len()-1])
			assert.Len(t, ch.Bandwidths(), tc.want)
		})
	}
}

// TestNew_Errors covers every validation sentinel.
func TestNew_Errors(t *testing.T) {
	wls, bw := band(4)

	_, err := spectral.New(wls, bw, spectral.Symmetric(2))
	assert.ErrorIs(t, err, spectral.ErrClipTooLarge)

	_, err = spectral.New(wls, bw, spectral.Asymmetric(4, 0))
	assert.ErrorIs(t, err, spectral.ErrClipTooLarge)

	_, err = spectral.New(wls, bw, spectral.Symmetric(-1))
	assert.ErrorIs(t, err, spectral.ErrNegativeClip)

	_, err = spectral.New(nil, nil, spectral.NoClip)
	assert.ErrorIs(t, err, spectral.ErrEmpty)

	_, err = spectral.New(wls, bw[:3], spectral.NoClip)
	assert.ErrorIs(t, err, spectral.ErrLengthMismatch)

	wls[1] = math.NaN()
	_, err = spectral.New(wls, bw, spectral.NoClip)
	assert.ErrorIs(t, err, spectral.ErrNonFinite)
}

// TestTrim accepts pre-trimmed and untrimmed arrays and rejects others.
func TestTrim(t *testing.T) {
	wls, bw := band(6)
	ch, err := spectral.New(wls, bw, spectral.Asymmetric(1, 2))
	require.NoError(t, err)

	full := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}}
	got, err := ch.Trim(full)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {2}, {3}}, got)

	pre := [][]float64{{1}, {2}, {3}}
	got, err = ch.Trim(pre)
	require.NoError(t, err)
	assert.Equal(t, pre, got)

	_, err = ch.Trim(full[:5])
	assert.ErrorIs(t, err, spectral.ErrRowCount)
}

// TestUniform derives a shared bandwidth.
func TestUniform(t *testing.T) {
	ch, err := spectral.Uniform([]float64{1, 2, 3, 5}, spectral.NoClip)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, ch.Bandwidths())

	mono, err := spectral.Uniform([]float64{4.3e-6}, spectral.NoClip)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, mono.Bandwidths())
	assert.Equal(t, 1, mono.Original())
	assert.Equal(t, spectral.NoClip, mono.Clip())
}
