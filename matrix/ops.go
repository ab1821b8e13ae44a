// SPDX-License-Identifier: MIT

package matrix

import "fmt"

// ---------- operation tags ----------

const (
	opAdd       = "Add"
	opTranspose = "Transpose"
)

// matrixErrorf wraps an underlying error with the given operation tag.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// policyOf returns the numeric-policy option matching m, so derived
// matrices keep the policy of their inputs.
func policyOf(m Matrix) Option {
	if d, ok := m.(*Dense); ok && !d.validateNaNInf {
		return WithNoValidateNaNInf()
	}

	return WithValidateNaNInf()
}

// Add computes the element-wise sum C = A + B into a fresh Dense.
//
// Implementation:
//   - Stage 1: validate both operands are non-nil and share a shape.
//   - Stage 2: if both are *Dense run a single flat loop; otherwise i→j via At.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch; ErrNaNInf from Set on the generic path.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (Matrix, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}

	res, err := NewDense(a.Rows(), a.Cols(), policyOf(a))
	if err != nil {
		return nil, matrixErrorf(opAdd, err)
	}

	// Fast path: both operands expose flat buffers.
	da, okA := a.(*Dense)
	db, okB := b.(*Dense)
	if okA && okB {
		for k := range res.data {
			res.data[k] = da.data[k] + db.data[k]
		}
		return res, nil
	}

	var av, bv float64
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
			if err = res.Set(i, j, av+bv); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ as a fresh Dense with the numeric policy of m.
// Complexity: O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows, policyOf(m))
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	// Fast-path for Dense → Dense: data[i*cols + j] → res.data[j*rows + i].
	var i, j int
	if dm, ok := m.(*Dense); ok {
		var baseSrc int
		for i = 0; i < rows; i++ {
			baseSrc = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[baseSrc+j]
			}
		}
		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			v, err = m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if err = res.Set(j, i, v); err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("Set(%d,%d): %w", j, i, err))
			}
		}
	}

	return res, nil
}
