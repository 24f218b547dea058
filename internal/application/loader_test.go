package application

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidfuse/evidfuse/internal/domain"
)

const validStudyYAML = `
name: supplier-selection
description: three suppliers, two criteria
alternatives: [atlas, borea, cirrus]
criteria:
  - id: cost
    weight: 0.6
  - id: quality
    weight: 0.4
experts:
  - id: e1
    weight: 0.9
    judgments:
      cost:
        - [1, 2, 6]
        - [0.5, 1, 3]
        - [0.16666666666666666, 0.3333333333333333, 1]
      quality:
        - [1, 1.6666666666666667, 2.5]
        - [0.6, 1, 1.5]
        - [0.4, 0.6666666666666666, 1]
  - id: e2
    weight: 0.6
    judgments:
      cost:
        - [1, 1.8333333333333333, 3.6666666666666665]
        - [0.5454545454545454, 1, 2]
        - [0.2727272727272727, 0.5, 1]
      quality:
        - [1, 1.4285714285714286, 3.3333333333333335]
        - [0.7, 1, 2.3333333333333335]
        - [0.3, 0.42857142857142855, 1]
`

const validStudyXML = `<?xml version="1.0" encoding="UTF-8"?>
<fusion_study name="supplier-selection">
  <alternatives>
    <alternative>atlas</alternative>
    <alternative>borea</alternative>
    <alternative>cirrus</alternative>
  </alternatives>
  <criteria>
    <criterion id="cost" weight="0.6"/>
    <criterion id="quality" weight="0.4"/>
  </criteria>
  <experts>
    <expert id="e1" weight="0.9">
      <judgment criterion="cost">
        <row>1 2 6</row>
        <row>0.5 1 3</row>
        <row>0.16666666666666666 0.3333333333333333 1</row>
      </judgment>
      <judgment criterion="quality">
        <row>1 1.6666666666666667 2.5</row>
        <row>0.6 1 1.5</row>
        <row>0.4 0.6666666666666666 1</row>
      </judgment>
    </expert>
  </experts>
</fusion_study>
`

func TestStudyLoader_LoadYAML(t *testing.T) {
	loader := NewStudyLoader()

	study, err := loader.LoadFromReader(context.Background(), strings.NewReader(validStudyYAML), StudyFormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "supplier-selection", study.Name)
	assert.Equal(t, []string{"atlas", "borea", "cirrus"}, study.Frame.Alternatives())
	require.Len(t, study.Criteria, 2)
	assert.Equal(t, "cost", study.Criteria[0].ID)
	require.Len(t, study.Experts, 2)
	assert.Equal(t, 0.9, study.Experts[0].Weight)

	m, ok := study.Experts[0].Judgments["cost"]
	require.True(t, ok)
	assert.Equal(t, 3, m.Size())
	assert.InDelta(t, 2.0, m.At(0, 1), 1e-12)
}

func TestStudyLoader_CachesByContent(t *testing.T) {
	loader := NewStudyLoader()

	first, err := loader.LoadFromReader(context.Background(), strings.NewReader(validStudyYAML), StudyFormatYAML)
	require.NoError(t, err)
	second, err := loader.LoadFromReader(context.Background(), strings.NewReader(validStudyYAML), StudyFormatYAML)
	require.NoError(t, err)

	assert.Same(t, first, second, "identical bytes must hit the cache")
}

func TestStudyLoader_RejectsUnknownYAMLFields(t *testing.T) {
	loader := NewStudyLoader()

	bad := strings.Replace(validStudyYAML, "description:", "descriptino:", 1)
	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(bad), StudyFormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "descriptino")
}

func TestStudyLoader_UnknownCriterionGetsSuggestion(t *testing.T) {
	loader := NewStudyLoader()

	bad := strings.Replace(validStudyYAML, "      quality:\n", "      qualiti:\n", 1)
	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(bad), StudyFormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown criterion "qualiti"`)
	assert.Contains(t, err.Error(), `did you mean "quality"?`)
}

func TestStudyLoader_NonReciprocalMatrixFails(t *testing.T) {
	loader := NewStudyLoader()

	bad := strings.Replace(validStudyYAML, "- [0.5, 1, 3]", "- [0.4, 1, 3]", 1)
	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(bad), StudyFormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedMatrix)

	var matrixErr *domain.MatrixError
	require.ErrorAs(t, err, &matrixErr)
	assert.Equal(t, "e1", matrixErr.ExpertID)
	assert.Equal(t, "cost", matrixErr.CriterionID)
}

func TestStudyLoader_DimensionMismatchFails(t *testing.T) {
	loader := NewStudyLoader()

	const bad = `
name: tiny
alternatives: [a, b, c]
criteria:
  - id: only
    weight: 1
experts:
  - id: e1
    weight: 1
    judgments:
      only:
        - [1, 2]
        - [0.5, 1]
`
	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(bad), StudyFormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedMatrix)
	assert.Contains(t, err.Error(), "3 alternatives")
}

func TestStudyLoader_LoadXML(t *testing.T) {
	loader := NewStudyLoader()

	study, err := loader.LoadFromReader(context.Background(), strings.NewReader(validStudyXML), StudyFormatXML)
	require.NoError(t, err)

	assert.Equal(t, "supplier-selection", study.Name)
	assert.Equal(t, []string{"atlas", "borea", "cirrus"}, study.Frame.Alternatives())
	require.Len(t, study.Experts, 1)

	m, ok := study.Experts[0].Judgments["quality"]
	require.True(t, ok)
	assert.InDelta(t, 2.5, m.At(0, 2), 1e-12)
}

func TestStudyLoader_LoadFromFile_FormatByExtension(t *testing.T) {
	loader := NewStudyLoader()
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "study.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(validStudyYAML), 0o644))
	xmlPath := filepath.Join(dir, "study.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(validStudyXML), 0o644))

	fromYAML, err := loader.LoadFromFile(context.Background(), yamlPath)
	require.NoError(t, err)
	fromXML, err := loader.LoadFromFile(context.Background(), xmlPath)
	require.NoError(t, err)

	assert.Equal(t, fromYAML.Name, fromXML.Name)
	assert.Equal(t, fromYAML.Frame.Alternatives(), fromXML.Frame.Alternatives())

	_, err = loader.LoadFromFile(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestStudyLoader_DuplicateIDsFail(t *testing.T) {
	loader := NewStudyLoader()

	dupCriterion := strings.Replace(validStudyYAML, "id: quality", "id: cost", 1)
	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(dupCriterion), StudyFormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate criterion")
}

func TestStudyLoader_ValidationCatchesBadWeights(t *testing.T) {
	loader := NewStudyLoader()

	bad := strings.Replace(validStudyYAML, "weight: 0.9", "weight: 1.4", 1)
	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(bad), StudyFormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
