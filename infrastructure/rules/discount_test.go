package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidfuse/evidfuse/internal/domain"
)

func TestDiscount_ScalesFocalMassTowardIgnorance(t *testing.T) {
	frame := mustFrame(t, "a", "b")
	b := mustBPA(t, frame, map[string]float64{"a": 0.8, "a|b": 0.2})

	got, err := Discount(b, 0.75)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, got.Mass(domain.NewFocalSet("a")), 1e-9)
	assert.InDelta(t, 0.4, got.Mass(frame.Universal()), 1e-9)
	assert.InDelta(t, 1.0, massSum(got), domain.MassEpsilon)
}

func TestDiscount_Identity(t *testing.T) {
	frame := mustFrame(t, "a", "b", "c")
	b := mustBPA(t, frame, map[string]float64{"a": 0.5, "b|c": 0.3, "a|b|c": 0.2})

	got, err := Discount(b, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(b, domain.MassEpsilon))
}

func TestDiscount_ZeroRateYieldsVacuousAssignment(t *testing.T) {
	frame := mustFrame(t, "a", "b")
	b := mustBPA(t, frame, map[string]float64{"a": 0.9, "b": 0.1})

	got, err := Discount(b, 0)
	require.NoError(t, err)
	assert.True(t, got.Equal(domain.TotalIgnorance(frame), domain.MassEpsilon))
}

func TestDiscount_RejectsOutOfRangeRate(t *testing.T) {
	frame := mustFrame(t, "a", "b")
	b := mustBPA(t, frame, map[string]float64{"a": 1})

	for _, alpha := range []float64{-0.01, 1.01} {
		_, err := Discount(b, alpha)
		assert.ErrorIs(t, err, ErrInvalidWeight, "alpha=%g", alpha)
	}
}

func TestDiscountRates_RelativeToMaximum(t *testing.T) {
	rates, err := DiscountRates([]float64{0.8, 0.4, 0.2})
	require.NoError(t, err)

	require.Len(t, rates, 3)
	assert.InDelta(t, 1.0, rates[0], 1e-9)
	assert.InDelta(t, 0.5, rates[1], 1e-9)
	assert.InDelta(t, 0.25, rates[2], 1e-9)
}

func TestDiscountRates_Errors(t *testing.T) {
	cases := []struct {
		name    string
		weights []float64
	}{
		{name: "empty", weights: nil},
		{name: "all zero", weights: []float64{0, 0}},
		{name: "negative", weights: []float64{0.5, -0.1}},
		{name: "above one", weights: []float64{0.5, 1.1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DiscountRates(tc.weights)
			assert.ErrorIs(t, err, ErrInvalidWeight)
		})
	}
}

func TestNormalizeWeights(t *testing.T) {
	got, err := NormalizeWeights([]float64{2, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got[0], 1e-9)
	assert.InDelta(t, 0.25, got[1], 1e-9)
	assert.InDelta(t, 0.25, got[2], 1e-9)

	_, err = NormalizeWeights([]float64{0, 0})
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = NormalizeWeights(nil)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}
