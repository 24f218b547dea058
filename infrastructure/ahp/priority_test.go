package ahp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidfuse/evidfuse/internal/domain"
)

// consistentMatrix builds the perfectly consistent matrix a_ij = w_i/w_j
// for the given weight vector.
func consistentMatrix(t *testing.T, weights []float64) domain.PairwiseMatrix {
	t.Helper()
	n := len(weights)
	cells := make([][]float64, n)
	for i := range cells {
		cells[i] = make([]float64, n)
		for j := range cells[i] {
			cells[i][j] = weights[i] / weights[j]
		}
	}
	m, err := domain.NewPairwiseMatrix(cells)
	require.NoError(t, err)
	return m
}

func TestNewPriorityMethod(t *testing.T) {
	for _, name := range []string{MethodGeometric, MethodEigenvector} {
		method, err := NewPriorityMethod(name)
		require.NoError(t, err)
		assert.Equal(t, name, method.Name())
	}

	_, err := NewPriorityMethod("simplex")
	assert.ErrorIs(t, err, ErrUnknownPriorityMethod)
}

func TestPriorityMethods_ConsistentMatrix(t *testing.T) {
	// On a perfectly consistent matrix both classical methods recover
	// the generating weight vector exactly.
	weights := []float64{0.6, 0.3, 0.1}
	matrix := consistentMatrix(t, weights)

	methods := []struct {
		name   string
		method interface {
			Priorities(domain.PairwiseMatrix) ([]float64, error)
		}
	}{
		{name: "geometric mean", method: &GeometricMeanMethod{}},
		{name: "eigenvector", method: &EigenvectorMethod{}},
	}

	for _, tt := range methods {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.method.Priorities(matrix)
			require.NoError(t, err)
			require.Len(t, got, len(weights))

			var sum float64
			for i, w := range weights {
				assert.InDelta(t, w, got[i], 1e-9)
				sum += got[i]
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestPriorityMethods_AgreeOnMildInconsistency(t *testing.T) {
	cells := [][]float64{
		{1, 2, 4},
		{0.5, 1, 3},
		{0.25, 1.0 / 3, 1},
	}
	matrix, err := domain.NewPairwiseMatrix(cells)
	require.NoError(t, err)

	gm, err := (&GeometricMeanMethod{}).Priorities(matrix)
	require.NoError(t, err)
	ev, err := (&EigenvectorMethod{}).Priorities(matrix)
	require.NoError(t, err)

	// The methods coincide only on consistent matrices, but on a mildly
	// inconsistent one they must stay close and preserve the order.
	for i := range gm {
		assert.InDelta(t, gm[i], ev[i], 0.01)
	}
	assert.Greater(t, gm[0], gm[1])
	assert.Greater(t, gm[1], gm[2])
}

func TestEigenvectorMethod_ConvergenceBudget(t *testing.T) {
	matrix := consistentMatrix(t, []float64{0.5, 0.3, 0.2})

	em := &EigenvectorMethod{MaxIterations: 1}
	_, err := em.Priorities(matrix)
	assert.ErrorIs(t, err, ErrNoConvergence)
}
