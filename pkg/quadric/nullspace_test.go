package quadric

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveNullspaceSphere(t *testing.T) {
	acc, err := Accumulate(unitSphereSamples(200))
	require.NoError(t, err)

	ns, diags, err := SolveNullspace(acc.AtA(), DefaultNullspaceThreshold)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, 1, ns.K)
	assert.False(t, ns.Forced)
	assert.True(t, sort.Float64sAreSorted(ns.Eigenvalues))

	rows, cols := ns.Basis.Dims()
	assert.Equal(t, NumCoefficients, rows)
	assert.Equal(t, 1, cols)

	basis := make([]float64, NumCoefficients)
	for i := range basis {
		basis[i] = ns.Basis.At(i, 0)
	}
	requireProportional(t, []float64{1, 1, 1, 0, 0, 0, 0, 0, 0, -1}, basis, 1e-8)
}

func TestSolveNullspaceForcesOneDimension(t *testing.T) {
	// Points filling a cube do not lie on any quadric.
	rng := rand.New(rand.NewSource(5))
	samples := make([]Sample, 300)
	for i := range samples {
		p := geometry.NewVector3(rng.Float64(), rng.Float64(), rng.Float64())
		samples[i] = NewSample(p, geometry.NewVector3(0, 0, 1))
	}
	acc, err := Accumulate(samples)
	require.NoError(t, err)

	ns, diags, err := SolveNullspace(acc.AtA(), DefaultNullspaceThreshold)
	require.NoError(t, err)
	assert.Equal(t, 1, ns.K)
	assert.True(t, ns.Forced)
	require.Len(t, diags, 1)
	assert.Equal(t, DegenerateNullspace, diags[0].Kind)
	assert.Equal(t, Warning, diags[0].Severity)
}

func TestSolveNullspaceCollinearIsLarge(t *testing.T) {
	acc, err := Accumulate(collinearSamples(21))
	require.NoError(t, err)

	ns, diags, err := SolveNullspace(acc.AtA(), DefaultNullspaceThreshold)
	require.NoError(t, err)
	assert.Empty(t, diags)
	// Only x², x and 1 are non-zero along the x axis.
	assert.Equal(t, 7, ns.K)
}

// collinearSamples lies on the x axis with normals along +y
func collinearSamples(n int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		x := -2 + 4*float64(i)/float64(n-1)
		samples[i] = NewSample(geometry.NewVector3(x, 0, 0), geometry.NewVector3(0, 1, 0))
	}
	return samples
}
