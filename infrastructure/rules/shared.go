// Package rules implements the evidence-combination layer: the conflict
// coefficient, Dempster's normalized rule, Yager's unnormalized rule,
// the conflict-adaptive rule that switches between them, left-to-right
// folding, and importance discounting.
package rules

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

// Rule identifiers accepted in configuration and recorded in traces.
const (
	RuleDempster = "dempster"
	RuleYager    = "yager"
	RuleAdaptive = "adaptive"
)

// Errors returned by the combination layer.
var (
	// ErrUnknownRule is returned when a configuration names a combination
	// rule that is not registered.
	ErrUnknownRule = errors.New("unknown combination rule")

	// ErrFrameMismatch is returned when two assignments defined over
	// different frames are combined.
	ErrFrameMismatch = errors.New("assignments are defined over different frames")

	// ErrInvalidWeight is returned when an importance weight falls
	// outside its accepted range.
	ErrInvalidWeight = errors.New("invalid importance weight")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// NewRule returns the registered combination rule for the given name.
// The threshold applies only to the adaptive rule and is ignored by the
// fixed rules.
func NewRule(name string, threshold float64) (ports.CombinationRule, error) {
	switch name {
	case RuleDempster:
		return DempsterRule{}, nil
	case RuleYager:
		return YagerRule{}, nil
	case RuleAdaptive:
		return NewAdaptiveRule(AdaptiveConfig{ConflictThreshold: threshold})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
}

// sameFrame verifies both operands share one frame of discernment.
func sameFrame(m1, m2 domain.BPA) error {
	if !m1.Frame().Universal().Equal(m2.Frame().Universal()) {
		return ErrFrameMismatch
	}
	return nil
}
