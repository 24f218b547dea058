package ahp

import (
	"fmt"
	"math"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

// Priority method identifiers accepted in configuration.
const (
	MethodGeometric   = "geometric"
	MethodEigenvector = "eigenvector"
)

var (
	_ ports.PriorityMethod = (*GeometricMeanMethod)(nil)
	_ ports.PriorityMethod = (*EigenvectorMethod)(nil)
)

// NewPriorityMethod returns the registered method for the given name.
func NewPriorityMethod(name string) (ports.PriorityMethod, error) {
	switch name {
	case MethodGeometric:
		return &GeometricMeanMethod{}, nil
	case MethodEigenvector:
		return &EigenvectorMethod{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPriorityMethod, name)
	}
}

// GeometricMeanMethod derives priorities as the normalized geometric
// means of the matrix rows. For a perfectly consistent matrix this is
// identical to the principal eigenvector, and it needs no iteration.
type GeometricMeanMethod struct{}

// Name implements ports.PriorityMethod.
func (*GeometricMeanMethod) Name() string { return MethodGeometric }

// Priorities implements ports.PriorityMethod.
func (*GeometricMeanMethod) Priorities(m domain.PairwiseMatrix) ([]float64, error) {
	n := m.Size()
	raw := make([]float64, n)
	var sum float64

	for i := 0; i < n; i++ {
		// Geometric mean via log-space to avoid overflow on large ratios.
		var logSum float64
		for j := 0; j < n; j++ {
			logSum += math.Log(m.At(i, j))
		}
		raw[i] = math.Exp(logSum / float64(n))
		sum += raw[i]
	}

	for i := range raw {
		raw[i] /= sum
	}
	return raw, nil
}

// EigenvectorMethod derives priorities as the principal eigenvector of
// the matrix, computed by power iteration. This is Saaty's original
// scheme; it differs from the geometric mean only on inconsistent
// matrices.
type EigenvectorMethod struct {
	// MaxIterations caps the power-iteration loop; zero means the
	// default of 200.
	MaxIterations int

	// Tolerance is the convergence threshold on the max component
	// change; zero means the default of 1e-12.
	Tolerance float64
}

// Name implements ports.PriorityMethod.
func (*EigenvectorMethod) Name() string { return MethodEigenvector }

// Priorities implements ports.PriorityMethod.
func (em *EigenvectorMethod) Priorities(m domain.PairwiseMatrix) ([]float64, error) {
	maxIter := em.MaxIterations
	if maxIter <= 0 {
		maxIter = 200
	}
	tol := em.Tolerance
	if tol <= 0 {
		tol = 1e-12
	}

	n := m.Size()
	v := make([]float64, n)
	for i := range v {
		v[i] = 1 / float64(n)
	}

	next := make([]float64, n)
	for iter := 0; iter < maxIter; iter++ {
		var sum float64
		for i := 0; i < n; i++ {
			var acc float64
			for j := 0; j < n; j++ {
				acc += m.At(i, j) * v[j]
			}
			next[i] = acc
			sum += acc
		}

		var maxDiff float64
		for i := range next {
			next[i] /= sum
			if d := math.Abs(next[i] - v[i]); d > maxDiff {
				maxDiff = d
			}
		}
		v, next = next, v

		if maxDiff < tol {
			return v, nil
		}
	}

	return nil, fmt.Errorf("%w after %d iterations", ErrNoConvergence, maxIter)
}
