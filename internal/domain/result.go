package domain

import "time"

// Interval is the belief-plausibility interval [Bel, Pl] for one
// alternative, with 0 ≤ Bel ≤ Pl ≤ 1.
type Interval struct {
	// Belief is the lower probability bound: mass directly supporting
	// the alternative.
	Belief float64 `json:"belief"`

	// Plausibility is the upper probability bound: mass not
	// contradicting the alternative.
	Plausibility float64 `json:"plausibility"`
}

// Width returns the interval width Pl − Bel, a measure of residual
// uncertainty about the alternative.
func (iv Interval) Width() float64 { return iv.Plausibility - iv.Belief }

// RankedAlternative is one row of the final ranking.
type RankedAlternative struct {
	// Rank is the 1-based position in the ranking.
	Rank int `json:"rank"`

	// ID is the alternative identifier.
	ID string `json:"id"`

	// Score is the scalarization γ·Bel + (1−γ)·Pl used to order
	// alternatives, with γ the pessimism coefficient.
	Score float64 `json:"score"`

	// Interval is the alternative's belief-plausibility interval.
	Interval Interval `json:"interval"`
}

// Fold stages recorded in the combination trace.
const (
	// StageExperts marks folds across experts within one criterion.
	StageExperts = "experts"

	// StageCriteria marks folds across per-criterion assignments.
	StageCriteria = "criteria"
)

// FoldStep records one pairwise combination: which source was folded
// into the running result, the measured conflict, and the rule the
// combiner chose. The sequence of steps is part of the engine's
// observable contract.
type FoldStep struct {
	// Stage is StageExperts or StageCriteria.
	Stage string `json:"stage"`

	// CriterionID is set for expert-stage folds and names the criterion
	// whose panel is being combined.
	CriterionID string `json:"criterion_id,omitempty"`

	// SourceID identifies the expert or criterion folded into the
	// running result at this step.
	SourceID string `json:"source_id"`

	// Step is the 1-based position within the stage's fold sequence.
	Step int `json:"step"`

	// Conflict is the conflict coefficient K measured between the
	// running result and the incoming source, in [0, 1].
	Conflict float64 `json:"conflict"`

	// Rule names the combination rule applied at this step.
	Rule string `json:"rule"`
}

// AnalysisParams captures the tunables a run was executed with, so a
// result is reproducible from its own record.
type AnalysisParams struct {
	Rule                 string  `json:"rule"`
	ConflictThreshold    float64 `json:"conflict_threshold"`
	Pessimism            float64 `json:"pessimism"`
	PriorityMethod       string  `json:"priority_method"`
	ConfidenceFactor     float64 `json:"confidence_factor"`
	ConsistencyThreshold float64 `json:"consistency_threshold"`
}

// Result is the complete outcome of one analysis: the combined group
// assignment, per-alternative intervals, the ranking, and the full
// intermediate trace for inspection and export.
type Result struct {
	// RunID uniquely identifies this analysis execution.
	RunID string `json:"run_id"`

	// Frame is the frame of discernment the analysis ran over.
	Frame Frame `json:"-"`

	// Params are the tunables the analysis was executed with.
	Params AnalysisParams `json:"params"`

	// GroupBPA is the single combined assignment after all folds.
	GroupBPA BPA `json:"-"`

	// PerExpert maps criterion → expert → the discounted assignment that
	// entered the expert fold for that criterion.
	PerExpert map[string]map[string]BPA `json:"-"`

	// PerCriterion maps criterion → the combined panel assignment before
	// criterion weighting.
	PerCriterion map[string]BPA `json:"-"`

	// Steps is the ordered fold trace across both stages.
	Steps []FoldStep `json:"steps"`

	// Intervals holds the belief-plausibility interval per alternative.
	Intervals map[string]Interval `json:"intervals"`

	// Ranking orders the alternatives by descending score, ties broken
	// by descending belief and then by identifier.
	Ranking []RankedAlternative `json:"ranking"`

	// Best is the identifier of the top-ranked alternative.
	Best string `json:"best"`

	// Timestamp records when the analysis completed.
	Timestamp time.Time `json:"timestamp"`
}
