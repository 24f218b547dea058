package ahp

import (
	"github.com/evidfuse/evidfuse/internal/domain"
)

// randomIndex holds Saaty's random consistency indices, indexed by
// matrix dimension. Dimensions beyond the table use the last value.
var randomIndex = []float64{
	0, 0, 0, 0.58, 0.90, 1.12, 1.24, 1.32, 1.41, 1.45, 1.49, 1.51, 1.48, 1.56, 1.57, 1.59,
}

// RandomIndex returns Saaty's random consistency index for an n×n
// matrix.
func RandomIndex(n int) float64 {
	if n < 0 {
		return 0
	}
	if n >= len(randomIndex) {
		return randomIndex[len(randomIndex)-1]
	}
	return randomIndex[n]
}

// ConsistencyRatio computes CR = CI / RI for the matrix against the
// given priority vector, where CI = (λmax − n)/(n − 1) and λmax is
// estimated as the mean of (A·w)_i / w_i. Matrices of dimension 1 or 2
// are consistent by construction and yield 0.
func ConsistencyRatio(m domain.PairwiseMatrix, priorities []float64) float64 {
	n := m.Size()
	if n <= 2 {
		return 0
	}

	var lambdaMax float64
	for i := 0; i < n; i++ {
		var acc float64
		for j := 0; j < n; j++ {
			acc += m.At(i, j) * priorities[j]
		}
		lambdaMax += acc / priorities[i]
	}
	lambdaMax /= float64(n)

	ci := (lambdaMax - float64(n)) / float64(n-1)
	ri := RandomIndex(n)
	if ri == 0 {
		return 0
	}

	cr := ci / ri
	if cr < 0 {
		// λmax can dip fractionally below n from float error on a
		// perfectly consistent matrix.
		return 0
	}
	return cr
}
