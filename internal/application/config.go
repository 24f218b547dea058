// Package application orchestrates the fusion pipeline: it loads studies,
// builds per-expert assignments, discounts and folds them, and derives the
// final ranked result.
package application

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AnalysisConfig defines the tunables of a complete analysis run and
// serves as the single configuration entry point for the analyzer.
type AnalysisConfig struct {
	// Rule selects the combination rule applied at every fold step.
	Rule string `yaml:"rule" json:"rule" validate:"required,oneof=dempster yager adaptive"`

	// ConflictThreshold is the adaptive rule's switch point τ: conflict
	// below it is normalized away, conflict at or above it is kept as
	// ignorance on the whole frame. Ignored by the fixed rules.
	ConflictThreshold float64 `yaml:"conflict_threshold" json:"conflict_threshold" validate:"gte=0,lte=1"`

	// Pessimism is the scalarization coefficient γ: ranking scores are
	// γ·Bel + (1−γ)·Pl, so 1 ranks purely by belief and 0 purely by
	// plausibility.
	Pessimism float64 `yaml:"pessimism" json:"pessimism" validate:"gte=0,lte=1"`

	// PriorityMethod selects how priority vectors are derived from
	// comparison matrices.
	PriorityMethod string `yaml:"priority_method" json:"priority_method" validate:"required,oneof=geometric eigenvector"`

	// ConfidenceFactor scales singleton masses when a priority vector is
	// mapped onto an assignment; the remainder goes to the whole frame.
	ConfidenceFactor float64 `yaml:"confidence_factor" json:"confidence_factor" validate:"gt=0,lte=1"`

	// ConsistencyThreshold is the maximum accepted consistency ratio for
	// a comparison matrix.
	ConsistencyThreshold float64 `yaml:"consistency_threshold" json:"consistency_threshold" validate:"gt=0,lte=1"`

	// Parallelism bounds the number of goroutines building assignments
	// concurrently. Zero means one goroutine per CPU.
	Parallelism int `yaml:"parallelism" json:"parallelism" validate:"gte=0"`
}

// DefaultAnalysisConfig returns the classical parameterization: the
// adaptive rule at τ = 0.4, balanced pessimism, geometric-mean priorities,
// confidence 0.8, and Saaty's 0.1 consistency bound.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Rule:                 "adaptive",
		ConflictThreshold:    0.4,
		Pessimism:            0.5,
		PriorityMethod:       "geometric",
		ConfidenceFactor:     0.8,
		ConsistencyThreshold: 0.1,
	}
}

// Validate checks the configuration against its constraints.
func (c AnalysisConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("analysis configuration validation failed: %w", err)
	}
	return nil
}
