// Package export renders analysis results to interchange formats.
// Each exporter implements ports.Exporter for one concrete format; all of
// them project the result onto a shared flat document so the formats agree
// on field names and ordering.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

// ErrUnknownFormat indicates a requested export format has no exporter.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names accepted by NewExporter.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXML  = "xml"
)

// NewExporter returns the exporter for the named format.
func NewExporter(format string) (ports.Exporter, error) {
	switch format {
	case FormatJSON:
		return JSONExporter{}, nil
	case FormatCSV:
		return CSVExporter{}, nil
	case FormatXML:
		return XMLExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// rankingRow is one alternative of the final ranking, flattened for export.
type rankingRow struct {
	Rank         int     `json:"rank"`
	ID           string  `json:"alternative"`
	Score        float64 `json:"score"`
	Belief       float64 `json:"belief"`
	Plausibility float64 `json:"plausibility"`
	Width        float64 `json:"width"`
	Best         bool    `json:"best,omitempty"`
}

// massRow is one focal element of the combined group assignment.
type massRow struct {
	Set  string  `json:"set"`
	Mass float64 `json:"mass"`
}

// document is the format-independent projection of a result.
type document struct {
	RunID        string                `json:"run_id"`
	GeneratedAt  time.Time             `json:"generated_at"`
	Params       domain.AnalysisParams `json:"params"`
	Alternatives []string              `json:"alternatives"`
	Best         string                `json:"best"`
	Ranking      []rankingRow          `json:"ranking"`
	GroupMasses  []massRow             `json:"group_masses"`
	Steps        []domain.FoldStep     `json:"fold_trace"`
}

// newDocument projects the result onto the export document. Ranking order,
// focal-set order, and step order are taken from the result unchanged.
func newDocument(res *domain.Result) document {
	doc := document{
		RunID:        res.RunID,
		GeneratedAt:  res.Timestamp,
		Params:       res.Params,
		Alternatives: res.Frame.Alternatives(),
		Best:         res.Best,
		Ranking:      make([]rankingRow, 0, len(res.Ranking)),
		Steps:        res.Steps,
	}

	for _, ra := range res.Ranking {
		doc.Ranking = append(doc.Ranking, rankingRow{
			Rank:         ra.Rank,
			ID:           ra.ID,
			Score:        ra.Score,
			Belief:       ra.Interval.Belief,
			Plausibility: ra.Interval.Plausibility,
			Width:        ra.Interval.Width(),
			Best:         ra.ID == res.Best,
		})
	}

	for _, set := range res.GroupBPA.Focal() {
		doc.GroupMasses = append(doc.GroupMasses, massRow{
			Set:  set.String(),
			Mass: res.GroupBPA.Mass(set),
		})
	}

	return doc
}
