package rules

import (
	"fmt"

	"github.com/evidfuse/evidfuse/internal/domain"
)

// Discount weakens an assignment toward total ignorance in proportion to
// the source's unreliability: every focal mass is scaled by α and the
// residual 1−α is added to the mass of the whole frame Θ. Total mass is
// conserved for any α in [0, 1]; α = 1 is the identity and α = 0
// discounts the source to the vacuous assignment m(Θ) = 1.
func Discount(b domain.BPA, alpha float64) (domain.BPA, error) {
	if alpha < 0 || alpha > 1 {
		return domain.BPA{}, fmt.Errorf("%w: discount rate %g outside [0, 1]", ErrInvalidWeight, alpha)
	}

	bb := domain.NewBPABuilder(b.Frame())
	for _, set := range b.Focal() {
		bb.Add(set, alpha*b.Mass(set))
	}
	if alpha < 1 {
		bb.Add(b.Frame().Universal(), 1-alpha)
	}
	return bb.Build()
}

// DiscountRates derives per-source discount rates from raw importance
// weights: ω*_k = ω_k / max(ω), so the most important source keeps its
// evidence undiscounted and every other source is weakened relative to
// it. Weights must lie in [0, 1] and at least one must be positive.
func DiscountRates(weights []float64) ([]float64, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights given", ErrInvalidWeight)
	}

	var max float64
	for i, w := range weights {
		if w < 0 || w > 1 {
			return nil, fmt.Errorf("%w: weight %g at index %d outside [0, 1]", ErrInvalidWeight, w, i)
		}
		if w > max {
			max = w
		}
	}
	if max == 0 {
		return nil, fmt.Errorf("%w: all weights are zero", ErrInvalidWeight)
	}

	rates := make([]float64, len(weights))
	for i, w := range weights {
		rates[i] = w / max
	}
	return rates, nil
}

// NormalizeWeights scales non-negative weights to sum to one.
func NormalizeWeights(weights []float64) ([]float64, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights given", ErrInvalidWeight)
	}

	var sum float64
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %g at index %d", ErrInvalidWeight, w, i)
		}
		sum += w
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: all weights are zero", ErrInvalidWeight)
	}

	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / sum
	}
	return out, nil
}
