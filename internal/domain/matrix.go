package domain

import (
	"fmt"
	"math"
)

// reciprocalTol is the relative tolerance used when checking that
// m[i][j] · m[j][i] = 1 and that diagonal entries equal 1. Study files
// routinely carry ratios rounded to a few decimals.
const reciprocalTol = 1e-6

// PairwiseMatrix is a validated square matrix of relative preference
// ratios over the alternatives of a frame, for one expert and one
// criterion. Entries are positive, the diagonal is 1, and the matrix is
// reciprocal: m[i][j] = 1/m[j][i].
type PairwiseMatrix struct {
	cells [][]float64
}

// NewPairwiseMatrix validates and wraps the given ratio cells.
// It returns ErrMalformedMatrix when the matrix is empty, not square,
// non-positive, has a non-unit diagonal, or is not reciprocal.
func NewPairwiseMatrix(cells [][]float64) (PairwiseMatrix, error) {
	n := len(cells)
	if n == 0 {
		return PairwiseMatrix{}, fmt.Errorf("%w: matrix has no rows", ErrMalformedMatrix)
	}

	copied := make([][]float64, n)
	for i, row := range cells {
		if len(row) != n {
			return PairwiseMatrix{}, fmt.Errorf("%w: row %d has %d entries, want %d", ErrMalformedMatrix, i, len(row), n)
		}
		copied[i] = make([]float64, n)
		copy(copied[i], row)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := copied[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return PairwiseMatrix{}, fmt.Errorf("%w: entry [%d][%d] = %g is not positive", ErrMalformedMatrix, i, j, v)
			}
			if i == j && math.Abs(v-1) > reciprocalTol {
				return PairwiseMatrix{}, fmt.Errorf("%w: diagonal entry [%d][%d] = %g, want 1", ErrMalformedMatrix, i, j, v)
			}
			if j > i {
				if prod := v * copied[j][i]; math.Abs(prod-1) > reciprocalTol {
					return PairwiseMatrix{}, fmt.Errorf("%w: entries [%d][%d] and [%d][%d] are not reciprocal (product %g)",
						ErrMalformedMatrix, i, j, j, i, prod)
				}
			}
		}
	}

	return PairwiseMatrix{cells: copied}, nil
}

// Size returns the matrix dimension.
func (m PairwiseMatrix) Size() int { return len(m.cells) }

// At returns the preference ratio of alternative i over alternative j.
func (m PairwiseMatrix) At(i, j int) float64 { return m.cells[i][j] }

// Cells returns a copy of the ratio cells.
func (m PairwiseMatrix) Cells() [][]float64 {
	out := make([][]float64, len(m.cells))
	for i, row := range m.cells {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}
