package rules

import (
	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

var _ ports.CombinationRule = YagerRule{}

// YagerRule is the unnormalized conjunctive combination: intersecting
// mass products are summed per focal element and the conflicting mass K
// is not discarded but added to the whole frame Θ. Total mass is
// conserved for any K, including total conflict, so the rule has no
// undefined case.
type YagerRule struct{}

// Name implements ports.CombinationRule.
func (YagerRule) Name() string { return RuleYager }

// Combine implements ports.CombinationRule.
func (YagerRule) Combine(m1, m2 domain.BPA) (domain.BPA, ports.Outcome, error) {
	if err := sameFrame(m1, m2); err != nil {
		return domain.BPA{}, ports.Outcome{}, err
	}

	products, conflict := intersectionProducts(m1, m2)
	outcome := ports.Outcome{Conflict: conflict, Rule: RuleYager}

	bb := domain.NewBPABuilder(m1.Frame())
	for _, p := range products {
		bb.Add(p.set, p.mass)
	}
	if conflict > 0 {
		bb.Add(m1.Frame().Universal(), conflict)
	}

	combined, err := bb.Build()
	if err != nil {
		return domain.BPA{}, outcome, err
	}
	return combined, outcome, nil
}
