package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/nrmoifits/matrix"
	"github.com/stretchr/testify/require"
)

// hide wraps any Matrix to hide its concrete type and force the generic path.
type hide struct{ matrix.Matrix }

// TestTransposeAndAdd checks both the Dense fast path and the generic path.
func TestTransposeAndAdd(t *testing.T) {
	a, err := matrix.NewDenseFromRows([][]float64{{0, 1, 2}, {0, 0, 3}, {0, 0, 0}})
	require.NoError(t, err)

	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	sum, err := matrix.Add(a, at)
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(sum, 0))
	require.Equal(t, "[0, 1, 2]\n[1, 0, 3]\n[2, 3, 0]\n", sum.(*matrix.Dense).String())

	atSlow, err := matrix.Transpose(hide{a})
	require.NoError(t, err)
	sumSlow, err := matrix.Add(hide{a}, atSlow)
	require.NoError(t, err)
	require.Equal(t, sum.(*matrix.Dense).String(), sumSlow.(*matrix.Dense).String())
}

// TestAddErrors verifies nil and shape guards.
func TestAddErrors(t *testing.T) {
	a, _ := matrix.NewDense(2, 2)
	b, _ := matrix.NewDense(2, 3)

	_, err := matrix.Add(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.Add(nil, a)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	var typedNil *matrix.Dense
	_, err = matrix.Transpose(typedNil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestNaNSurvivesRelaxedOps ensures derived matrices inherit the relaxed policy.
func TestNaNSurvivesRelaxedOps(t *testing.T) {
	a, err := matrix.NewDense(2, 2, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, a.Set(0, 1, math.NaN()))

	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	sum, err := matrix.Add(a, at)
	require.NoError(t, err)

	v, err := sum.At(1, 0)
	require.NoError(t, err)
	require.True(t, math.IsNaN(v))
	require.NoError(t, matrix.ValidateSymmetric(sum, 0), "NaN mirrors count as symmetric")
}

// TestValidateSymmetric covers square, tolerance and asymmetry checks.
func TestValidateSymmetric(t *testing.T) {
	rect, _ := matrix.NewDense(2, 3)
	require.ErrorIs(t, matrix.ValidateSymmetric(rect, 0), matrix.ErrDimensionMismatch)

	m, _ := matrix.NewDenseFromRows([][]float64{{1, 2}, {2.0000001, 1}})
	require.ErrorIs(t, matrix.ValidateSymmetric(m, 1e-9), matrix.ErrAsymmetry)
	require.NoError(t, matrix.ValidateSymmetric(m, 1e-6))
	require.ErrorIs(t, matrix.ValidateSymmetric(m, math.NaN()), matrix.ErrNaNInf)
}
