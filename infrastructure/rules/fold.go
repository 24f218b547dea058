package rules

import (
	"fmt"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

// FoldAll combines the assignments left to right: the first operand
// seeds the running result and each subsequent one is folded in with the
// given rule. Conflict is measured — and the rule chosen, for the
// adaptive rule — against the running result at every step, so the
// sequence of outcomes is fold-order dependent. The fold order is part
// of the engine's observable contract and callers must not reorder
// sources.
//
// A single assignment is returned unchanged with no outcomes; an empty
// slice returns ErrNoSources.
func FoldAll(rule ports.CombinationRule, sources []domain.BPA) (domain.BPA, []ports.Outcome, error) {
	switch len(sources) {
	case 0:
		return domain.BPA{}, nil, domain.ErrNoSources
	case 1:
		return sources[0], nil, nil
	}

	running := sources[0]
	outcomes := make([]ports.Outcome, 0, len(sources)-1)

	for i, next := range sources[1:] {
		combined, outcome, err := rule.Combine(running, next)
		if err != nil {
			return domain.BPA{}, outcomes, fmt.Errorf("fold step %d: %w", i+1, err)
		}
		running = combined
		outcomes = append(outcomes, outcome)
	}

	return running, outcomes, nil
}
