package rules

import (
	"fmt"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

var _ ports.CombinationRule = (*AdaptiveRule)(nil)

// AdaptiveConfig defines the tunables of the adaptive rule.
type AdaptiveConfig struct {
	// ConflictThreshold is the conflict level at which the rule stops
	// normalizing: below it Dempster's rule applies, at or above it
	// Yager's rule applies. Must be in [0, 1].
	ConflictThreshold float64 `yaml:"conflict_threshold" json:"conflict_threshold" validate:"gte=0,lte=1"`
}

// DefaultAdaptiveConfig returns the empirically chosen threshold 0.4.
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{ConflictThreshold: 0.4}
}

// AdaptiveRule selects between the normalized and unnormalized
// conjunctive rules per combination, based on the measured conflict:
// low-conflict evidence is normalized (Dempster), high-conflict evidence
// keeps its disagreement as ignorance on Θ (Yager). Because the rule is
// re-chosen at every fold step, it can switch mid-fold as the running
// conflict crosses the threshold; the resulting loss of associativity is
// a deliberate trade-off, not a defect.
//
// The adaptive path never fails on total conflict: K = 1 always routes
// to the unnormalized rule regardless of the threshold.
type AdaptiveRule struct {
	config   AdaptiveConfig
	dempster DempsterRule
	yager    YagerRule
}

// NewAdaptiveRule creates an AdaptiveRule with the given configuration.
func NewAdaptiveRule(config AdaptiveConfig) (*AdaptiveRule, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &AdaptiveRule{config: config}, nil
}

// Threshold returns the configured conflict threshold.
func (ar *AdaptiveRule) Threshold() float64 { return ar.config.ConflictThreshold }

// Name implements ports.CombinationRule.
func (*AdaptiveRule) Name() string { return RuleAdaptive }

// Combine implements ports.CombinationRule. The reported Outcome carries
// the name of the rule actually applied.
func (ar *AdaptiveRule) Combine(m1, m2 domain.BPA) (domain.BPA, ports.Outcome, error) {
	if err := sameFrame(m1, m2); err != nil {
		return domain.BPA{}, ports.Outcome{}, err
	}

	k := Conflict(m1, m2)
	if k < ar.config.ConflictThreshold && k < 1-domain.MassEpsilon {
		return ar.dempster.Combine(m1, m2)
	}
	return ar.yager.Combine(m1, m2)
}
