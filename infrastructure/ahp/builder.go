package ahp

import (
	"fmt"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

// BuilderConfig defines the tunables of the AHP-to-BPA mapping.
// All fields are validated during builder creation.
type BuilderConfig struct {
	// PriorityMethod selects how priority vectors are derived from
	// pairwise matrices: "geometric" (normalized geometric mean of rows)
	// or "eigenvector" (power-iteration principal eigenvector).
	PriorityMethod string `yaml:"priority_method" json:"priority_method" validate:"required,oneof=geometric eigenvector"`

	// ConfidenceFactor scales the priority scores into singleton masses;
	// the residual 1−ConfidenceFactor is assigned to the whole frame Θ
	// as declared ignorance. Must be in (0, 1].
	ConfidenceFactor float64 `yaml:"confidence_factor" json:"confidence_factor" validate:"gt=0,lte=1"`

	// ConsistencyThreshold is the maximum accepted consistency ratio.
	// Judgments whose CR exceeds it fail with ErrInconsistentJudgment.
	// Saaty's classical threshold is 0.1.
	ConsistencyThreshold float64 `yaml:"consistency_threshold" json:"consistency_threshold" validate:"gt=0,lte=1"`
}

// DefaultBuilderConfig returns the classical mapping: geometric-mean
// priorities, confidence factor 0.8, and Saaty's 0.1 consistency bound.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		PriorityMethod:       MethodGeometric,
		ConfidenceFactor:     0.8,
		ConsistencyThreshold: 0.1,
	}
}

// Builder converts one expert's pairwise-comparison matrix for one
// criterion into a basic probability assignment over the frame.
// A Builder is immutable after creation and safe for concurrent use;
// Build is a pure function of its inputs.
type Builder struct {
	config BuilderConfig
	method ports.PriorityMethod
}

// NewBuilder creates a Builder with the given configuration.
func NewBuilder(config BuilderConfig) (*Builder, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	method, err := NewPriorityMethod(config.PriorityMethod)
	if err != nil {
		return nil, err
	}
	return &Builder{config: config, method: method}, nil
}

// Config returns the builder's configuration.
func (b *Builder) Config() BuilderConfig { return b.config }

// Build derives the assignment for one judgment: the priority vector is
// computed and consistency-checked, each singleton {a_i} receives mass
// priority_i · confidence, and the residual 1−confidence goes to Θ.
//
// The matrix dimension must equal the frame size
// (ErrMalformedMatrix otherwise), and the consistency ratio must not
// exceed the configured threshold (ErrInconsistentJudgment otherwise).
func (b *Builder) Build(frame domain.Frame, m domain.PairwiseMatrix) (domain.BPA, error) {
	if m.Size() != frame.Size() {
		return domain.BPA{}, fmt.Errorf("%w: matrix dimension %d does not match frame size %d",
			domain.ErrMalformedMatrix, m.Size(), frame.Size())
	}

	priorities, err := b.method.Priorities(m)
	if err != nil {
		return domain.BPA{}, fmt.Errorf("priority derivation failed: %w", err)
	}

	if cr := ConsistencyRatio(m, priorities); cr > b.config.ConsistencyThreshold {
		return domain.BPA{}, fmt.Errorf("%w: consistency ratio %.4f exceeds threshold %.4f",
			domain.ErrInconsistentJudgment, cr, b.config.ConsistencyThreshold)
	}

	bb := domain.NewBPABuilder(frame)
	residual := 1.0
	for i, id := range frame.Alternatives() {
		mass := priorities[i] * b.config.ConfidenceFactor
		bb.Add(domain.NewFocalSet(id), mass)
		residual -= mass
	}
	// The residual is 1−confidence up to float error; assigning the
	// running remainder keeps the sum exactly 1.
	bb.Add(frame.Universal(), residual)

	return bb.Build()
}
