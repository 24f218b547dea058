package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFrame(t *testing.T, ids ...string) Frame {
	t.Helper()
	frame, err := NewFrame(ids)
	require.NoError(t, err)
	return frame
}

func TestBPABuilder_Build(t *testing.T) {
	frame := mustFrame(t, "a", "b", "c")

	tests := []struct {
		name    string
		masses  map[string]float64 // focal members joined by "," -> mass
		wantErr error
	}{
		{
			name:   "valid assignment",
			masses: map[string]float64{"a": 0.6, "a,b": 0.3, "a,b,c": 0.1},
		},
		{
			name:    "masses not summing to one",
			masses:  map[string]float64{"a": 0.6, "b": 0.3},
			wantErr: ErrInvalidBPA,
		},
		{
			name:    "negative mass",
			masses:  map[string]float64{"a": 1.2, "b": -0.2},
			wantErr: ErrInvalidBPA,
		},
		{
			name:    "unknown alternative in focal element",
			masses:  map[string]float64{"a": 0.5, "z": 0.5},
			wantErr: ErrInvalidBPA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpa, err := buildBPA(frame, tt.masses)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var sum float64
			for _, set := range bpa.Focal() {
				sum += bpa.Mass(set)
			}
			assert.InDelta(t, 1.0, sum, MassEpsilon)
		})
	}
}

func TestBPABuilder_EmptySetRejected(t *testing.T) {
	frame := mustFrame(t, "a", "b")
	_, err := NewBPABuilder(frame).Add(NewFocalSet(), 1).Build()
	assert.ErrorIs(t, err, ErrInvalidBPA)
}

func TestBPABuilder_AccumulatesSameSet(t *testing.T) {
	frame := mustFrame(t, "a", "b")
	bpa, err := NewBPABuilder(frame).
		Add(NewFocalSet("a"), 0.3).
		Add(NewFocalSet("a"), 0.2).
		Add(frame.Universal(), 0.5).
		Build()
	require.NoError(t, err)

	assert.InDelta(t, 0.5, bpa.Mass(NewFocalSet("a")), MassEpsilon)
	assert.Equal(t, 2, bpa.Len())
}

func TestBPABuilder_BuildNormalized(t *testing.T) {
	frame := mustFrame(t, "a", "b")
	bpa, err := NewBPABuilder(frame).
		Add(NewFocalSet("a"), 3).
		Add(NewFocalSet("b"), 1).
		BuildNormalized()
	require.NoError(t, err)

	assert.InDelta(t, 0.75, bpa.Mass(NewFocalSet("a")), MassEpsilon)
	assert.InDelta(t, 0.25, bpa.Mass(NewFocalSet("b")), MassEpsilon)
}

func TestTotalIgnorance(t *testing.T) {
	frame := mustFrame(t, "a", "b", "c")
	bpa := TotalIgnorance(frame)

	assert.Equal(t, 1, bpa.Len())
	assert.InDelta(t, 1.0, bpa.Mass(frame.Universal()), MassEpsilon)
}

func TestBPA_BeliefAndPlausibility(t *testing.T) {
	frame := mustFrame(t, "a", "b", "c")
	bpa, err := buildBPA(frame, map[string]float64{
		"a":     0.4,
		"a,b":   0.3,
		"b,c":   0.2,
		"a,b,c": 0.1,
	})
	require.NoError(t, err)

	a := NewFocalSet("a")
	// Bel({a}) counts only {a}; Pl({a}) counts {a}, {a,b} and Θ.
	assert.InDelta(t, 0.4, bpa.Belief(a), MassEpsilon)
	assert.InDelta(t, 0.8, bpa.Plausibility(a), MassEpsilon)

	ab := NewFocalSet("a", "b")
	// Bel({a,b}) counts {a} and {a,b}; Pl({a,b}) counts everything.
	assert.InDelta(t, 0.7, bpa.Belief(ab), MassEpsilon)
	assert.InDelta(t, 1.0, bpa.Plausibility(ab), MassEpsilon)

	for _, id := range frame.Alternatives() {
		iv, err := bpa.Interval(id)
		require.NoError(t, err)
		assert.LessOrEqual(t, iv.Belief, iv.Plausibility+MassEpsilon,
			"Bel must not exceed Pl for %q", id)
	}
}

func TestBPA_IntervalUnknownAlternative(t *testing.T) {
	frame := mustFrame(t, "a", "b")
	bpa := TotalIgnorance(frame)

	_, err := bpa.Interval("z")
	assert.ErrorIs(t, err, ErrUnknownAlternative)
}

func TestBPA_Equal(t *testing.T) {
	frame := mustFrame(t, "a", "b")
	b1, err := buildBPA(frame, map[string]float64{"a": 0.7, "a,b": 0.3})
	require.NoError(t, err)
	b2, err := buildBPA(frame, map[string]float64{"a": 0.7, "a,b": 0.3})
	require.NoError(t, err)
	b3, err := buildBPA(frame, map[string]float64{"a": 0.6, "a,b": 0.4})
	require.NoError(t, err)

	assert.True(t, b1.Equal(b2, MassEpsilon))
	assert.False(t, b1.Equal(b3, MassEpsilon))
}

// buildBPA constructs an assignment from comma-joined member lists, a
// compact notation for test fixtures.
func buildBPA(frame Frame, masses map[string]float64) (BPA, error) {
	bb := NewBPABuilder(frame)
	for members, mass := range masses {
		bb.Add(newSetFromList(members), mass)
	}
	return bb.Build()
}

func newSetFromList(members string) FocalSet {
	var ids []string
	start := 0
	for i := 0; i <= len(members); i++ {
		if i == len(members) || members[i] == ',' {
			if i > start {
				ids = append(ids, members[start:i])
			}
			start = i + 1
		}
	}
	return NewFocalSet(ids...)
}
