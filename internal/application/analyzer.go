package application

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/evidfuse/evidfuse/infrastructure/ahp"
	"github.com/evidfuse/evidfuse/infrastructure/rules"
	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

// Analysis phases reported to the observer.
const (
	PhaseBuildAssignments = "build_assignments"
	PhaseFoldExperts      = "fold_experts"
	PhaseFoldCriteria     = "fold_criteria"
	PhaseRank             = "rank"
)

// Analyzer runs the full fusion pipeline over a study: per-expert
// assignment construction, importance discounting, the expert and
// criterion folds, and interval derivation with ranking.
//
// Assignment construction is parallelized because each (expert,
// criterion) matrix is independent. The folds themselves are strictly
// sequential left to right: the fold order is part of the observable
// contract, and the adaptive rule's choice at each step depends on the
// running result.
type Analyzer struct {
	config   AnalysisConfig
	builder  *ahp.Builder
	rule     ports.CombinationRule
	metrics  ports.MetricsCollector
	observer ports.AnalysisObserver
}

// AnalyzerOption customizes an Analyzer beyond its configuration.
type AnalyzerOption func(*Analyzer)

// WithMetrics attaches a metrics collector recording fold counts,
// conflict distribution, and analysis durations.
func WithMetrics(m ports.MetricsCollector) AnalyzerOption {
	return func(a *Analyzer) { a.metrics = m }
}

// WithObserver attaches an observer notified at phase boundaries.
func WithObserver(o ports.AnalysisObserver) AnalyzerOption {
	return func(a *Analyzer) { a.observer = o }
}

// NewAnalyzer creates an Analyzer from a validated configuration.
func NewAnalyzer(config AnalysisConfig, opts ...AnalyzerOption) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	builder, err := ahp.NewBuilder(ahp.BuilderConfig{
		PriorityMethod:       config.PriorityMethod,
		ConfidenceFactor:     config.ConfidenceFactor,
		ConsistencyThreshold: config.ConsistencyThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring assignment builder: %w", err)
	}

	rule, err := rules.NewRule(config.Rule, config.ConflictThreshold)
	if err != nil {
		return nil, fmt.Errorf("configuring combination rule: %w", err)
	}

	a := &Analyzer{config: config, builder: builder, rule: rule}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() AnalysisConfig { return a.config }

// Analyze runs the pipeline and returns the complete result with its
// intermediate trace. The study is not mutated; repeated runs over the
// same study produce identical rankings, intervals, and fold traces.
func (a *Analyzer) Analyze(ctx context.Context, study *Study) (*domain.Result, error) {
	if study == nil {
		return nil, fmt.Errorf("%w: no study", domain.ErrNoSources)
	}
	if len(study.Experts) == 0 {
		return nil, fmt.Errorf("%w: study %q has no experts", domain.ErrNoSources, study.Name)
	}
	if len(study.Criteria) == 0 {
		return nil, fmt.Errorf("%w: study %q has no criteria", domain.ErrNoSources, study.Name)
	}

	start := time.Now()
	res := &domain.Result{
		RunID: uuid.NewString(),
		Frame: study.Frame,
		Params: domain.AnalysisParams{
			Rule:                 a.config.Rule,
			ConflictThreshold:    a.config.ConflictThreshold,
			Pessimism:            a.config.Pessimism,
			PriorityMethod:       a.config.PriorityMethod,
			ConfidenceFactor:     a.config.ConfidenceFactor,
			ConsistencyThreshold: a.config.ConsistencyThreshold,
		},
		PerExpert:    make(map[string]map[string]domain.BPA, len(study.Criteria)),
		PerCriterion: make(map[string]domain.BPA, len(study.Criteria)),
		Intervals:    make(map[string]domain.Interval, study.Frame.Size()),
	}

	// raw[ci][ei] is the undiscounted assignment of expert ei for
	// criterion ci, indexed in study order.
	var raw [][]domain.BPA
	err := a.phase(ctx, PhaseBuildAssignments, func(ctx context.Context) error {
		var err error
		raw, err = a.buildAssignments(ctx, study)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = a.phase(ctx, PhaseFoldExperts, func(context.Context) error {
		return a.foldExperts(study, raw, res)
	})
	if err != nil {
		return nil, err
	}

	var group domain.BPA
	err = a.phase(ctx, PhaseFoldCriteria, func(context.Context) error {
		var err error
		group, err = a.foldCriteria(study, res)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.GroupBPA = group

	err = a.phase(ctx, PhaseRank, func(context.Context) error {
		return a.rank(study, res)
	})
	if err != nil {
		return nil, err
	}

	res.Timestamp = time.Now().UTC()
	if a.metrics != nil {
		labels := map[string]string{"study": study.Name}
		a.metrics.RecordLatency("analyze", time.Since(start), labels)
		a.metrics.RecordGauge("fusion_best_score", res.Ranking[0].Score, labels)
	}
	return res, nil
}

// phase runs fn between observer notifications.
func (a *Analyzer) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	if a.observer != nil {
		ctx = a.observer.PhaseStarted(ctx, name)
	}
	err := fn(ctx)
	if a.observer != nil {
		a.observer.PhaseCompleted(ctx, name, err)
	}
	return err
}

// buildAssignments constructs the undiscounted per-(expert, criterion)
// assignments. Construction is parallelized; every goroutine writes a
// distinct slot, so the result is independent of scheduling. An expert
// with no judgment for a criterion contributes total ignorance.
func (a *Analyzer) buildAssignments(ctx context.Context, study *Study) ([][]domain.BPA, error) {
	raw := make([][]domain.BPA, len(study.Criteria))
	for ci := range study.Criteria {
		raw[ci] = make([]domain.BPA, len(study.Experts))
	}

	limit := a.config.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for ci, criterion := range study.Criteria {
		for ei, expert := range study.Experts {
			g.Go(func() error {
				matrix, ok := expert.Judgments[criterion.ID]
				if !ok {
					raw[ci][ei] = domain.TotalIgnorance(study.Frame)
					return nil
				}

				bpa, err := a.builder.Build(study.Frame, matrix)
				if err != nil {
					return domain.NewMatrixError(expert.ID, criterion.ID, err)
				}
				raw[ci][ei] = bpa
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raw, nil
}

// foldExperts discounts every expert's assignment by the panel-relative
// rate and folds each criterion's panel left to right in study order.
func (a *Analyzer) foldExperts(study *Study, raw [][]domain.BPA, res *domain.Result) error {
	weights := make([]float64, len(study.Experts))
	for i, e := range study.Experts {
		weights[i] = e.Weight
	}
	rates, err := rules.DiscountRates(weights)
	if err != nil {
		return fmt.Errorf("deriving expert discount rates: %w", err)
	}

	for ci, criterion := range study.Criteria {
		discounted := make([]domain.BPA, len(study.Experts))
		perExpert := make(map[string]domain.BPA, len(study.Experts))
		for ei, expert := range study.Experts {
			d, err := rules.Discount(raw[ci][ei], rates[ei])
			if err != nil {
				return fmt.Errorf("discounting expert %q for criterion %q: %w", expert.ID, criterion.ID, err)
			}
			discounted[ei] = d
			perExpert[expert.ID] = d
		}
		res.PerExpert[criterion.ID] = perExpert

		combined, outcomes, err := rules.FoldAll(a.rule, discounted)
		if err != nil {
			return fmt.Errorf("folding experts for criterion %q: %w", criterion.ID, err)
		}

		for i, out := range outcomes {
			a.recordStep(res, study.Name, domain.FoldStep{
				Stage:       domain.StageExperts,
				CriterionID: criterion.ID,
				SourceID:    study.Experts[i+1].ID,
				Step:        i + 1,
				Conflict:    out.Conflict,
				Rule:        out.Rule,
			})
		}
		res.PerCriterion[criterion.ID] = combined
	}
	return nil
}

// foldCriteria weights the per-criterion assignments by normalized
// criterion importance, analogously to expert discounting, and folds
// them left to right in study order into the group assignment.
func (a *Analyzer) foldCriteria(study *Study, res *domain.Result) (domain.BPA, error) {
	weights := make([]float64, len(study.Criteria))
	for i, c := range study.Criteria {
		weights[i] = c.Weight
	}
	normalized, err := rules.NormalizeWeights(weights)
	if err != nil {
		return domain.BPA{}, fmt.Errorf("normalizing criterion weights: %w", err)
	}
	rates, err := rules.DiscountRates(normalized)
	if err != nil {
		return domain.BPA{}, fmt.Errorf("deriving criterion discount rates: %w", err)
	}

	discounted := make([]domain.BPA, len(study.Criteria))
	for i, criterion := range study.Criteria {
		d, err := rules.Discount(res.PerCriterion[criterion.ID], rates[i])
		if err != nil {
			return domain.BPA{}, fmt.Errorf("discounting criterion %q: %w", criterion.ID, err)
		}
		discounted[i] = d
	}

	group, outcomes, err := rules.FoldAll(a.rule, discounted)
	if err != nil {
		return domain.BPA{}, fmt.Errorf("folding criteria: %w", err)
	}

	for i, out := range outcomes {
		a.recordStep(res, study.Name, domain.FoldStep{
			Stage:    domain.StageCriteria,
			SourceID: study.Criteria[i+1].ID,
			Step:     i + 1,
			Conflict: out.Conflict,
			Rule:     out.Rule,
		})
	}
	return group, nil
}

// rank derives the belief-plausibility interval per alternative from the
// group assignment and orders alternatives by descending score, ties
// broken by descending belief and then by identifier.
func (a *Analyzer) rank(study *Study, res *domain.Result) error {
	gamma := a.config.Pessimism

	ranking := make([]domain.RankedAlternative, 0, study.Frame.Size())
	for _, id := range study.Frame.Alternatives() {
		iv, err := res.GroupBPA.Interval(id)
		if err != nil {
			return fmt.Errorf("deriving interval for %q: %w", id, err)
		}
		res.Intervals[id] = iv
		ranking = append(ranking, domain.RankedAlternative{
			ID:       id,
			Score:    gamma*iv.Belief + (1-gamma)*iv.Plausibility,
			Interval: iv,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		if ranking[i].Interval.Belief != ranking[j].Interval.Belief {
			return ranking[i].Interval.Belief > ranking[j].Interval.Belief
		}
		return ranking[i].ID < ranking[j].ID
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	res.Ranking = ranking
	res.Best = ranking[0].ID
	return nil
}

// recordStep appends a fold step to the trace and mirrors it to metrics.
func (a *Analyzer) recordStep(res *domain.Result, studyName string, step domain.FoldStep) {
	res.Steps = append(res.Steps, step)
	if a.metrics == nil {
		return
	}
	a.metrics.RecordCounter("fusion_fold_steps_total", 1, map[string]string{
		"stage": step.Stage,
		"rule":  step.Rule,
		"study": studyName,
	})
	a.metrics.RecordHistogram("fusion_fold_conflict", step.Conflict, map[string]string{
		"stage": step.Stage,
		"study": studyName,
	})
}
