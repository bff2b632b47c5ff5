package quadric

import (
	"math"
	"testing"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateSphereDeviation(t *testing.T) {
	q := Coefficients{0.5, 0.5, 0.5, 0, 0, 0, 0, 0, 0, -0.5}
	samples := []Sample{
		NewSample(geometry.NewVector3(1, 0, 0), geometry.NewVector3(1, 0, 0)),
		NewSample(geometry.NewVector3(0, 2, 0), geometry.NewVector3(0, 1, 0)),
		NewSample(geometry.NewVector3(0, 0, 0.5), geometry.NewVector3(0, 0, 1)),
	}

	deviations, stats, diags := Evaluate(q, samples)
	assert.Empty(t, diags)
	require.Len(t, deviations, 3)

	// f/‖∇f‖ = (r²−1)/(2r)
	assert.InDelta(t, 0, deviations[0], 1e-12)
	assert.InDelta(t, 0.75, deviations[1], 1e-12)
	assert.InDelta(t, -0.75, deviations[2], 1e-12)

	assert.Equal(t, 3, stats.Valid)
	assert.Equal(t, 0, stats.Singular)
	assert.InDelta(t, -0.75, stats.Min, 1e-12)
	assert.InDelta(t, 0.75, stats.Max, 1e-12)
	assert.InDelta(t, 0, stats.Mean, 1e-12)
	assert.InDelta(t, 0.5, stats.MeanAbs, 1e-12)
	assert.InDelta(t, 0.75, stats.MedianAbs, 1e-12)
}

func TestEvaluateZeroGradientSentinel(t *testing.T) {
	// Cone x² + y² − z² has a vanishing gradient at its apex.
	q := Coefficients{1, 1, -1, 0, 0, 0, 0, 0, 0, 0}
	samples := []Sample{
		NewSample(geometry.NewVector3(1, 0, 1), geometry.NewVector3(1, 0, -1)),
		NewSample(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1)),
		NewSample(geometry.NewVector3(0, 2, 1), geometry.NewVector3(0, 1, 0)),
	}

	deviations, stats, diags := Evaluate(q, samples)
	require.Len(t, deviations, 3)
	assert.True(t, math.IsNaN(deviations[1]))
	assert.False(t, math.IsNaN(deviations[0]))
	assert.False(t, math.IsNaN(deviations[2]))

	require.Len(t, diags, 1)
	assert.Equal(t, SingularGradient, diags[0].Kind)
	assert.Equal(t, Warning, diags[0].Severity)
	assert.Equal(t, 1, diags[0].Index)

	assert.Equal(t, 2, stats.Valid)
	assert.Equal(t, 1, stats.Singular)
	assert.False(t, math.IsNaN(stats.Mean))
	assert.False(t, math.IsNaN(stats.MedianAbs))
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]float64{-3, 1, math.NaN(), 2})

	assert.Equal(t, -3.0, stats.Min)
	assert.Equal(t, 2.0, stats.Max)
	assert.InDelta(t, 0, stats.Mean, 1e-12)
	assert.InDelta(t, 2, stats.MeanAbs, 1e-12)
	assert.Equal(t, 2.0, stats.MedianAbs)
	assert.Equal(t, 3, stats.Valid)
	assert.Equal(t, 1, stats.Singular)
}

func TestSummarizeEvenMedian(t *testing.T) {
	stats := Summarize([]float64{4, -1, 2, -3})
	assert.Equal(t, 2.5, stats.MedianAbs)
}

func TestSummarizeAllSentinels(t *testing.T) {
	stats := Summarize([]float64{math.NaN(), math.NaN()})

	assert.Equal(t, 0, stats.Valid)
	assert.Equal(t, 2, stats.Singular)
	assert.True(t, math.IsNaN(stats.Min))
	assert.True(t, math.IsNaN(stats.MedianAbs))
}
