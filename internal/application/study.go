package application

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/evidfuse/evidfuse/internal/domain"
)

// Study is a complete in-memory decision problem: the frame of
// alternatives, the weighted criteria, and the expert panel with its
// judgments. Studies are produced by the loader or the generator and
// consumed by the analyzer; they are not mutated after construction.
type Study struct {
	// Name identifies the study in exports and metrics.
	Name string

	// Frame is the frame of discernment over the study's alternatives.
	Frame domain.Frame

	// Criteria are the decision criteria in declaration order. The order
	// fixes the criterion fold sequence.
	Criteria []domain.Criterion

	// Experts is the panel in declaration order. The order fixes the
	// expert fold sequence within each criterion.
	Experts []domain.Expert
}

// StudyConfig is the YAML schema of a study file.
type StudyConfig struct {
	// Name is the human-readable identifier for this study.
	Name string `yaml:"name" validate:"required,min=1,max=255"`

	// Description provides optional context for the study file.
	Description string `yaml:"description" validate:"max=1000"`

	// Alternatives are the decision alternatives forming the frame of
	// discernment. At least two are required for a meaningful ranking.
	Alternatives []string `yaml:"alternatives" validate:"required,min=2,dive,min=1,max=100"`

	// Criteria lists the weighted decision criteria in fold order.
	Criteria []CriterionConfig `yaml:"criteria" validate:"required,min=1,dive"`

	// Experts lists the panel in fold order.
	Experts []ExpertConfig `yaml:"experts" validate:"required,min=1,dive"`
}

// CriterionConfig is one criterion of the YAML study schema.
type CriterionConfig struct {
	// ID is the unique identifier referenced by expert judgments.
	ID string `yaml:"id" validate:"required,min=1,max=100"`

	// Weight is the criterion's raw importance. Weights need not sum to
	// one; they are normalized before cross-criterion aggregation.
	Weight float64 `yaml:"weight" validate:"gt=0"`
}

// ExpertConfig is one expert of the YAML study schema.
type ExpertConfig struct {
	// ID is the unique identifier of the expert.
	ID string `yaml:"id" validate:"required,min=1,max=100"`

	// Weight is the expert's importance in [0, 1]. Discount rates are
	// derived from the whole panel's weights.
	Weight float64 `yaml:"weight" validate:"gte=0,lte=1"`

	// Judgments maps criterion id to the expert's pairwise-comparison
	// matrix for that criterion. A criterion left out is treated as
	// total ignorance.
	Judgments map[string][][]float64 `yaml:"judgments" validate:"required,min=1"`
}

// Compile turns a validated configuration into a Study, constructing the
// frame and every comparison matrix. Matrix failures carry the offending
// expert and criterion ids; unknown criterion references get a
// closest-match suggestion.
func (sc *StudyConfig) Compile() (*Study, error) {
	frame, err := domain.NewFrame(sc.Alternatives)
	if err != nil {
		return nil, fmt.Errorf("invalid alternatives: %w", err)
	}

	criteria := make([]domain.Criterion, 0, len(sc.Criteria))
	criterionIDs := make(map[string]struct{}, len(sc.Criteria))
	for _, cc := range sc.Criteria {
		if _, dup := criterionIDs[cc.ID]; dup {
			return nil, fmt.Errorf("duplicate criterion id %q", cc.ID)
		}
		criterionIDs[cc.ID] = struct{}{}
		criteria = append(criteria, domain.Criterion{ID: cc.ID, Weight: cc.Weight})
	}

	experts := make([]domain.Expert, 0, len(sc.Experts))
	expertIDs := make(map[string]struct{}, len(sc.Experts))
	for _, ec := range sc.Experts {
		if _, dup := expertIDs[ec.ID]; dup {
			return nil, fmt.Errorf("duplicate expert id %q", ec.ID)
		}
		expertIDs[ec.ID] = struct{}{}

		judgments := make(map[string]domain.PairwiseMatrix, len(ec.Judgments))
		for criterionID, cells := range ec.Judgments {
			if _, known := criterionIDs[criterionID]; !known {
				return nil, fmt.Errorf("expert %q judges unknown criterion %q%s",
					ec.ID, criterionID, didYouMean(criterionID, criteriaIDList(sc.Criteria)))
			}

			matrix, err := domain.NewPairwiseMatrix(cells)
			if err != nil {
				return nil, domain.NewMatrixError(ec.ID, criterionID, err)
			}
			if matrix.Size() != frame.Size() {
				return nil, domain.NewMatrixError(ec.ID, criterionID,
					fmt.Errorf("%w: matrix is %dx%d but the study has %d alternatives",
						domain.ErrMalformedMatrix, matrix.Size(), matrix.Size(), frame.Size()))
			}
			judgments[criterionID] = matrix
		}

		experts = append(experts, domain.Expert{ID: ec.ID, Weight: ec.Weight, Judgments: judgments})
	}

	return &Study{
		Name:     sc.Name,
		Frame:    frame,
		Criteria: criteria,
		Experts:  experts,
	}, nil
}

func criteriaIDList(criteria []CriterionConfig) []string {
	ids := make([]string, 0, len(criteria))
	for _, c := range criteria {
		ids = append(ids, c.ID)
	}
	return ids
}

// didYouMean renders a ", did you mean %q?" suffix when a known id is
// within a small edit distance of the unknown one.
func didYouMean(unknown string, known []string) string {
	const maxDistance = 3

	best := ""
	bestDist := maxDistance + 1
	sorted := append([]string(nil), known...)
	sort.Strings(sorted)
	for _, candidate := range sorted {
		if d := levenshtein.ComputeDistance(unknown, candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(", did you mean %q?", best)
}

// XMLStudy is the XML schema of a study file, mirroring the YAML schema.
// Matrices are written as one <row> element per matrix row with
// space-separated cell values.
type XMLStudy struct {
	XMLName      xml.Name       `xml:"fusion_study"`
	Name         string         `xml:"name,attr"`
	Alternatives []string       `xml:"alternatives>alternative"`
	Criteria     []XMLCriterion `xml:"criteria>criterion"`
	Experts      []XMLExpert    `xml:"experts>expert"`
}

// XMLCriterion is one criterion of the XML study schema.
type XMLCriterion struct {
	ID     string  `xml:"id,attr"`
	Weight float64 `xml:"weight,attr"`
}

// XMLExpert is one expert of the XML study schema.
type XMLExpert struct {
	ID        string        `xml:"id,attr"`
	Weight    float64       `xml:"weight,attr"`
	Judgments []XMLJudgment `xml:"judgment"`
}

// XMLJudgment is one comparison matrix of the XML study schema.
type XMLJudgment struct {
	Criterion string   `xml:"criterion,attr"`
	Rows      []string `xml:"row"`
}

// toConfig converts the XML document to the common StudyConfig so that
// both formats share validation and compilation.
func (xs *XMLStudy) toConfig() (*StudyConfig, error) {
	sc := &StudyConfig{
		Name:         xs.Name,
		Alternatives: xs.Alternatives,
	}

	for _, c := range xs.Criteria {
		sc.Criteria = append(sc.Criteria, CriterionConfig{ID: c.ID, Weight: c.Weight})
	}

	for _, e := range xs.Experts {
		judgments := make(map[string][][]float64, len(e.Judgments))
		for _, j := range e.Judgments {
			cells, err := parseMatrixRows(j.Rows)
			if err != nil {
				return nil, fmt.Errorf("expert %q, criterion %q: %w", e.ID, j.Criterion, err)
			}
			judgments[j.Criterion] = cells
		}
		sc.Experts = append(sc.Experts, ExpertConfig{ID: e.ID, Weight: e.Weight, Judgments: judgments})
	}

	return sc, nil
}

func parseMatrixRows(rows []string) ([][]float64, error) {
	cells := make([][]float64, 0, len(rows))
	for i, row := range rows {
		fields := strings.Fields(row)
		values := make([]float64, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid cell %q: %w", i+1, field, err)
			}
			values = append(values, v)
		}
		cells = append(cells, values)
	}
	return cells, nil
}
