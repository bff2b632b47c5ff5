package quadric

import (
	"testing"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solveStages(t *testing.T, samples []Sample, opts Options) (Coefficients, Diagnostics, error) {
	t.Helper()
	acc, err := Accumulate(samples)
	require.NoError(t, err)
	ns, _, err := SolveNullspace(acc.AtA(), opts.NullspaceThreshold)
	require.NoError(t, err)
	return SelectCoefficients(ns, acc.BtB(), acc.BtN(), opts)
}

func TestSelectCoefficientsMatchesNormalScale(t *testing.T) {
	q, diags, err := solveStages(t, unitSphereSamples(100), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, diags)

	// ∇(½(x²+y²+z²−1)) = p equals the unit normal on the sphere.
	want := Coefficients{0.5, 0.5, 0.5, 0, 0, 0, 0, 0, 0, -0.5}
	for i := range want {
		assert.InDelta(t, want[i], q[i], 1e-8, "coefficient %d", i)
	}
}

func TestSelectCoefficientsRegularizesCollinear(t *testing.T) {
	q, diags, err := solveStages(t, collinearSamples(21), DefaultOptions())
	require.NoError(t, err)

	info := diags.Filter(UnderconstrainedNormals)
	require.NotEmpty(t, info)
	assert.Equal(t, Info, info[0].Severity)
	assert.Equal(t, 3, info[0].Count)

	// The plane y = 0 has the +y normal everywhere on the axis.
	grad := q.Gradient(geometry.NewVector3(0.5, 0, 0))
	assert.InDelta(t, 0, grad.X, 1e-6)
	assert.InDelta(t, 1, grad.Y, 1e-4)
	assert.InDelta(t, 0, grad.Z, 1e-6)
}

func TestSelectCoefficientsTruncatesUnregularizedDirections(t *testing.T) {
	opts := DefaultOptions()
	// Penalize only the constant term, which the collinear nullspace excludes.
	opts.RegularizationWeights = [NumCoefficients]float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}

	q, diags, err := solveStages(t, collinearSamples(21), opts)
	require.NoError(t, err)

	under := diags.Filter(UnderconstrainedNormals)
	require.Len(t, under, 2)
	assert.Equal(t, Info, under[0].Severity)
	assert.Equal(t, Warning, under[1].Severity)
	assert.Equal(t, 3, under[1].Count)
	assert.True(t, q.IsFinite())
}

func TestSelectCoefficientsZeroNormalsIsFatal(t *testing.T) {
	samples := unitSphereSamples(50)
	for i := range samples {
		samples[i].Normal = geometry.Vector3{}
	}

	_, _, err := solveStages(t, samples, DefaultOptions())
	assert.ErrorIs(t, err, ErrNumericalInstability)
}
