package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

var _ ports.Exporter = XMLExporter{}

// XMLExporter renders a result as a pretty-printed XML document with
// per-alternative attributes, matching the layout of the JSON export.
type XMLExporter struct{}

// Format implements ports.Exporter.
func (XMLExporter) Format() string { return FormatXML }

type xmlDocument struct {
	XMLName      xml.Name    `xml:"fusion_results"`
	RunID        string      `xml:"metadata>run_id"`
	GeneratedAt  time.Time   `xml:"metadata>generated_at"`
	Best         string      `xml:"metadata>best_alternative"`
	Params       xmlParams   `xml:"metadata>params"`
	Alternatives []string    `xml:"frame>alternative"`
	Ranking      []xmlRanked `xml:"ranking>alternative"`
	GroupMasses  []xmlMass   `xml:"group_assignment>focal"`
	Steps        []xmlStep   `xml:"fold_trace>step"`
}

type xmlParams struct {
	Rule                 string  `xml:"rule,attr"`
	ConflictThreshold    float64 `xml:"conflict_threshold,attr"`
	Pessimism            float64 `xml:"pessimism,attr"`
	PriorityMethod       string  `xml:"priority_method,attr"`
	ConfidenceFactor     float64 `xml:"confidence_factor,attr"`
	ConsistencyThreshold float64 `xml:"consistency_threshold,attr"`
}

type xmlRanked struct {
	Rank         int     `xml:"rank,attr"`
	Name         string  `xml:"name,attr"`
	Score        float64 `xml:"score,attr"`
	Belief       float64 `xml:"belief,attr"`
	Plausibility float64 `xml:"plausibility,attr"`
	Best         bool    `xml:"best,attr,omitempty"`
}

type xmlMass struct {
	Set  string  `xml:"set,attr"`
	Mass float64 `xml:"mass,attr"`
}

type xmlStep struct {
	Stage     string  `xml:"stage,attr"`
	Criterion string  `xml:"criterion,attr,omitempty"`
	Source    string  `xml:"source,attr"`
	Step      int     `xml:"step,attr"`
	Conflict  float64 `xml:"conflict,attr"`
	Rule      string  `xml:"rule,attr"`
}

// Export implements ports.Exporter.
func (XMLExporter) Export(w io.Writer, res *domain.Result) error {
	doc := newDocument(res)

	out := xmlDocument{
		RunID:       doc.RunID,
		GeneratedAt: doc.GeneratedAt,
		Best:        doc.Best,
		Params: xmlParams{
			Rule:                 doc.Params.Rule,
			ConflictThreshold:    doc.Params.ConflictThreshold,
			Pessimism:            doc.Params.Pessimism,
			PriorityMethod:       doc.Params.PriorityMethod,
			ConfidenceFactor:     doc.Params.ConfidenceFactor,
			ConsistencyThreshold: doc.Params.ConsistencyThreshold,
		},
		Alternatives: doc.Alternatives,
	}

	for _, row := range doc.Ranking {
		out.Ranking = append(out.Ranking, xmlRanked{
			Rank:         row.Rank,
			Name:         row.ID,
			Score:        row.Score,
			Belief:       row.Belief,
			Plausibility: row.Plausibility,
			Best:         row.Best,
		})
	}
	for _, m := range doc.GroupMasses {
		out.GroupMasses = append(out.GroupMasses, xmlMass{Set: m.Set, Mass: m.Mass})
	}
	for _, s := range doc.Steps {
		out.Steps = append(out.Steps, xmlStep{
			Stage:     s.Stage,
			Criterion: s.CriterionID,
			Source:    s.SourceID,
			Step:      s.Step,
			Conflict:  s.Conflict,
			Rule:      s.Rule,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding result as xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing xml output: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
