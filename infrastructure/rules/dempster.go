package rules

import (
	"fmt"
	"sort"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

var _ ports.CombinationRule = DempsterRule{}

// DempsterRule is the normalized conjunctive combination: intersecting
// mass products are summed per focal element and divided by 1−K, so the
// conflicting mass is redistributed proportionally among the agreeing
// evidence. Undefined at K = 1: forcing it on totally conflicting
// operands fails with ErrTotalConflict.
type DempsterRule struct{}

// Name implements ports.CombinationRule.
func (DempsterRule) Name() string { return RuleDempster }

// Combine implements ports.CombinationRule.
func (DempsterRule) Combine(m1, m2 domain.BPA) (domain.BPA, ports.Outcome, error) {
	if err := sameFrame(m1, m2); err != nil {
		return domain.BPA{}, ports.Outcome{}, err
	}

	products, conflict := intersectionProducts(m1, m2)
	outcome := ports.Outcome{Conflict: conflict, Rule: RuleDempster}

	if conflict >= 1-domain.MassEpsilon {
		return domain.BPA{}, outcome, fmt.Errorf("%w: conflict %.9f leaves nothing to normalize",
			domain.ErrTotalConflict, conflict)
	}

	norm := 1 - conflict
	bb := domain.NewBPABuilder(m1.Frame())
	for _, p := range products {
		bb.Add(p.set, p.mass/norm)
	}

	combined, err := bb.Build()
	if err != nil {
		return domain.BPA{}, outcome, err
	}
	return combined, outcome, nil
}

type product struct {
	set  domain.FocalSet
	mass float64
}

// intersectionProducts evaluates the full cross-product of focal
// elements, accumulating mass per non-empty intersection and summing the
// mass of empty intersections as the conflict K. This O(F1·F2) sweep is
// the expensive step of every combination.
func intersectionProducts(m1, m2 domain.BPA) ([]product, float64) {
	acc := make(map[string]product)
	var conflict float64

	for _, a := range m1.Focal() {
		ma := m1.Mass(a)
		for _, b := range m2.Focal() {
			p := ma * m2.Mass(b)
			inter := a.Intersect(b)
			if inter.IsEmpty() {
				conflict += p
				continue
			}
			e := acc[inter.Key()]
			e.set = inter
			e.mass += p
			acc[inter.Key()] = e
		}
	}

	// Deterministic order for downstream accumulation.
	keys := make([]string, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]product, 0, len(acc))
	for _, k := range keys {
		out = append(out, acc[k])
	}

	if conflict > 1 {
		conflict = 1
	}
	return out, conflict
}
