// Package testutils provides deterministic synthetic studies for tests,
// benchmarks, and the generate command.
package testutils

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/evidfuse/evidfuse/internal/application"
)

// GeneratorConfig controls the shape of a synthetic study. The same
// configuration and seed always produce the same study.
type GeneratorConfig struct {
	// Name becomes the study name; empty defaults to "synthetic".
	Name string

	// Alternatives is the number of decision alternatives, at least 2.
	Alternatives int

	// Criteria is the number of criteria, at least 1.
	Criteria int

	// Experts is the panel size, at least 1.
	Experts int

	// Seed drives every random draw.
	Seed int64

	// Noise is the maximum multiplicative perturbation applied to each
	// upper-triangle matrix cell, in [0, 0.3). Zero produces perfectly
	// consistent matrices; small values keep the consistency ratio well
	// under the 0.1 acceptance bound.
	Noise float64
}

// GenerateStudyConfig produces a valid synthetic study configuration:
// reciprocal positive comparison matrices derived from hidden priority
// vectors, expert weights in (0, 1], and positive criterion weights.
func GenerateStudyConfig(cfg GeneratorConfig) (*application.StudyConfig, error) {
	if cfg.Alternatives < 2 {
		return nil, fmt.Errorf("need at least 2 alternatives, got %d", cfg.Alternatives)
	}
	if cfg.Criteria < 1 {
		return nil, fmt.Errorf("need at least 1 criterion, got %d", cfg.Criteria)
	}
	if cfg.Experts < 1 {
		return nil, fmt.Errorf("need at least 1 expert, got %d", cfg.Experts)
	}
	if cfg.Noise < 0 || cfg.Noise >= 0.3 {
		return nil, fmt.Errorf("noise must be in [0, 0.3), got %g", cfg.Noise)
	}

	name := cfg.Name
	if name == "" {
		name = "synthetic"
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	sc := &application.StudyConfig{
		Name:        name,
		Description: fmt.Sprintf("synthetic study (seed %d)", cfg.Seed),
	}

	for i := 0; i < cfg.Alternatives; i++ {
		sc.Alternatives = append(sc.Alternatives, fmt.Sprintf("alt-%02d", i+1))
	}
	for i := 0; i < cfg.Criteria; i++ {
		sc.Criteria = append(sc.Criteria, application.CriterionConfig{
			ID:     fmt.Sprintf("crit-%02d", i+1),
			Weight: 0.2 + 0.8*rng.Float64(),
		})
	}

	for i := 0; i < cfg.Experts; i++ {
		judgments := make(map[string][][]float64, cfg.Criteria)
		for _, criterion := range sc.Criteria {
			judgments[criterion.ID] = comparisonMatrix(rng, cfg.Alternatives, cfg.Noise)
		}
		sc.Experts = append(sc.Experts, application.ExpertConfig{
			ID:        fmt.Sprintf("expert-%02d", i+1),
			Weight:    0.3 + 0.7*rng.Float64(),
			Judgments: judgments,
		})
	}

	return sc, nil
}

// GenerateStudy produces the compiled form of GenerateStudyConfig.
func GenerateStudy(cfg GeneratorConfig) (*application.Study, error) {
	sc, err := GenerateStudyConfig(cfg)
	if err != nil {
		return nil, err
	}
	return sc.Compile()
}

// comparisonMatrix builds a reciprocal positive matrix around a hidden
// priority vector: cell (i, j) is w_i/w_j perturbed by at most the noise
// factor, with the lower triangle mirrored as exact reciprocals.
func comparisonMatrix(rng *rand.Rand, n int, noise float64) [][]float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = math.Exp(rng.NormFloat64() * 0.5)
	}

	cells := make([][]float64, n)
	for i := range cells {
		cells[i] = make([]float64, n)
		cells[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			factor := 1 + noise*(2*rng.Float64()-1)
			cells[i][j] = w[i] / w[j] * factor
			cells[j][i] = 1 / cells[i][j]
		}
	}
	return cells
}
