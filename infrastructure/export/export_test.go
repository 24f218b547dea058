package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidfuse/evidfuse/internal/domain"
)

func sampleResult(t *testing.T) *domain.Result {
	t.Helper()

	frame, err := domain.NewFrame([]string{"alpha", "beta", "gamma"})
	require.NoError(t, err)

	bb := domain.NewBPABuilder(frame)
	bb.Add(domain.NewFocalSet("alpha"), 0.5)
	bb.Add(domain.NewFocalSet("beta"), 0.3)
	bb.Add(frame.Universal(), 0.2)
	group, err := bb.Build()
	require.NoError(t, err)

	return &domain.Result{
		RunID: "run-42",
		Frame: frame,
		Params: domain.AnalysisParams{
			Rule:                 "adaptive",
			ConflictThreshold:    0.4,
			Pessimism:            0.5,
			PriorityMethod:       "geometric",
			ConfidenceFactor:     0.8,
			ConsistencyThreshold: 0.1,
		},
		GroupBPA: group,
		Steps: []domain.FoldStep{
			{Stage: domain.StageExperts, CriterionID: "cost", SourceID: "e2", Step: 1, Conflict: 0.1, Rule: "dempster"},
			{Stage: domain.StageCriteria, SourceID: "risk", Step: 1, Conflict: 0.55, Rule: "yager"},
		},
		Intervals: map[string]domain.Interval{
			"alpha": {Belief: 0.5, Plausibility: 0.7},
			"beta":  {Belief: 0.3, Plausibility: 0.5},
			"gamma": {Belief: 0.0, Plausibility: 0.2},
		},
		Ranking: []domain.RankedAlternative{
			{Rank: 1, ID: "alpha", Score: 0.6, Interval: domain.Interval{Belief: 0.5, Plausibility: 0.7}},
			{Rank: 2, ID: "beta", Score: 0.4, Interval: domain.Interval{Belief: 0.3, Plausibility: 0.5}},
			{Rank: 3, ID: "gamma", Score: 0.1, Interval: domain.Interval{Belief: 0.0, Plausibility: 0.2}},
		},
		Best:      "alpha",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewExporter(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatCSV, FormatXML} {
		exp, err := NewExporter(format)
		require.NoError(t, err, format)
		assert.Equal(t, format, exp.Format())
	}

	_, err := NewExporter("yaml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestJSONExporter_Export(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, res))

	var doc struct {
		RunID        string   `json:"run_id"`
		Best         string   `json:"best"`
		Alternatives []string `json:"alternatives"`
		Ranking      []struct {
			Rank         int     `json:"rank"`
			ID           string  `json:"alternative"`
			Score        float64 `json:"score"`
			Belief       float64 `json:"belief"`
			Plausibility float64 `json:"plausibility"`
			Width        float64 `json:"width"`
			Best         bool    `json:"best"`
		} `json:"ranking"`
		GroupMasses []struct {
			Set  string  `json:"set"`
			Mass float64 `json:"mass"`
		} `json:"group_masses"`
		Steps []domain.FoldStep `json:"fold_trace"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "run-42", doc.RunID)
	assert.Equal(t, "alpha", doc.Best)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, doc.Alternatives)

	require.Len(t, doc.Ranking, 3)
	assert.Equal(t, "alpha", doc.Ranking[0].ID)
	assert.True(t, doc.Ranking[0].Best)
	assert.False(t, doc.Ranking[1].Best)
	assert.InDelta(t, 0.2, doc.Ranking[0].Width, 1e-9)

	require.Len(t, doc.GroupMasses, 3)
	var total float64
	for _, m := range doc.GroupMasses {
		total += m.Mass
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	require.Len(t, doc.Steps, 2)
	assert.Equal(t, domain.StageExperts, doc.Steps[0].Stage)
	assert.Equal(t, "cost", doc.Steps[0].CriterionID)
}

func TestCSVExporter_Export(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, CSVExporter{}.Export(&buf, res))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4, "header plus one row per alternative")
	assert.Equal(t,
		[]string{"rank", "alternative", "score", "belief", "plausibility", "width", "best"},
		records[0])

	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "alpha", records[1][1])
	assert.Equal(t, "0.600000", records[1][2])
	assert.Equal(t, "true", records[1][6])

	assert.Equal(t, "gamma", records[3][1])
	assert.Equal(t, "false", records[3][6])
}

func TestXMLExporter_Export(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, XMLExporter{}.Export(&buf, res))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header), "output should start with an XML declaration")

	var doc xmlDocument
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "run-42", doc.RunID)
	assert.Equal(t, "alpha", doc.Best)
	assert.Equal(t, "adaptive", doc.Params.Rule)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, doc.Alternatives)

	require.Len(t, doc.Ranking, 3)
	assert.Equal(t, 1, doc.Ranking[0].Rank)
	assert.Equal(t, "alpha", doc.Ranking[0].Name)
	assert.True(t, doc.Ranking[0].Best)

	require.Len(t, doc.GroupMasses, 3)
	require.Len(t, doc.Steps, 2)
	assert.Equal(t, "cost", doc.Steps[0].Criterion)
	assert.Empty(t, doc.Steps[1].Criterion)
}
