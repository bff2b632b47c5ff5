package analysis

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/philipparndt/quadfit/pkg/quadric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplesAt(xs ...float64) []quadric.Sample {
	samples := make([]quadric.Sample, len(xs))
	for i, x := range xs {
		samples[i] = quadric.NewSample(geometry.NewVector3(x, 0, 0), geometry.NewVector3(1, 0, 0))
	}
	return samples
}

func TestWorstSamples(t *testing.T) {
	samples := samplesAt(0, 1, 2, 3, 4)
	deviations := []float64{0.1, -0.5, math.NaN(), 0.3, 0}

	worst := WorstSamples(samples, deviations, 3)
	require.Len(t, worst, 3)
	assert.Equal(t, 2, worst[0].Index)
	assert.Equal(t, 1, worst[1].Index)
	assert.Equal(t, 3, worst[2].Index)
	assert.Equal(t, geometry.NewVector3(3, 0, 0), worst[2].Position)

	assert.Len(t, WorstSamples(samples, deviations, 10), 5)
}

func TestFormatCoefficients(t *testing.T) {
	q := quadric.Coefficients{1, 1, 1, 0, 0, 0, 0, 0, 0, -1}
	assert.Equal(t, "[1, 1, 1, 0, 0, 0, 0, 0, 0, -1]", FormatCoefficients(q))
}

func TestFormatMatrix(t *testing.T) {
	out := FormatMatrix(quadric.Coefficients{1, 1, 1, 0, 0, 0, 0, 0, 0, -1}.Matrix())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], "-1")
}

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "(1.000000, -2.500000, 0.000000)", FormatVector(geometry.NewVector3(1, -2.5, 0)))
}

func TestWriteReport(t *testing.T) {
	samples := samplesAt(1, 2)
	result := &quadric.Result{
		Coefficients: quadric.Coefficients{0.5, 0.5, 0.5, 0, 0, 0, 0, 0, 0, -0.5},
		Deviations:   []float64{0, 0.75},
		Stats:        quadric.Summarize([]float64{0, 0.75}),
		Eigenvalues:  []float64{1e-16, 1},
		NullspaceDim: 1,
		SampleCount:  2,
	}
	result.Matrix = result.Coefficients.Matrix()

	var buf bytes.Buffer
	WriteReport(&buf, result, samples, ReportOptions{Name: "ball.stl", Worst: 1, Eigenvalues: true})
	out := buf.String()

	assert.Contains(t, out, "Source: ball.stl")
	assert.Contains(t, out, "Samples: 2")
	assert.Contains(t, out, "Nullspace dimension: 1")
	assert.Contains(t, out, "q12+q21")
	assert.Contains(t, out, "Eigenvalues of AᵀA:")
	assert.Contains(t, out, "Median |d|: 0.375")
	assert.Contains(t, out, "Top 1 Deviations:")
	assert.NotContains(t, out, "Excluded")
}

func TestWriteDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	WriteDiagnostics(&buf, quadric.Diagnostics{
		{Kind: quadric.DegenerateNullspace, Severity: quadric.Warning, Message: "unreliable", Index: -1},
		{Kind: quadric.SingularGradient, Severity: quadric.Warning, Message: "apex", Index: 4},
	})
	assert.Equal(t, "WARNING: DegenerateNullspace: unreliable\nWARNING: SingularGradient: apex (sample 4)\n", buf.String())
}
