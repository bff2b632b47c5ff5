package quadric

import (
	"math"
	"math/rand"
	"testing"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/stretchr/testify/require"
)

// fibonacciSphere returns n well spread unit directions
func fibonacciSphere(n int) []geometry.Vector3 {
	golden := math.Pi * (3 - math.Sqrt(5))
	dirs := make([]geometry.Vector3, n)
	for i := 0; i < n; i++ {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - z*z)
		phi := golden * float64(i)
		dirs[i] = geometry.NewVector3(r*math.Cos(phi), r*math.Sin(phi), z)
	}
	return dirs
}

// ellipsoidSamples samples (x-cx)²/a² + (y-cy)²/b² + (z-cz)²/c² = 1 with
// analytic unit normals.
func ellipsoidSamples(n int, center, radii geometry.Vector3) []Sample {
	samples := make([]Sample, n)
	for i, d := range fibonacciSphere(n) {
		offset := geometry.NewVector3(d.X*radii.X, d.Y*radii.Y, d.Z*radii.Z)
		normal := geometry.NewVector3(
			offset.X/(radii.X*radii.X),
			offset.Y/(radii.Y*radii.Y),
			offset.Z/(radii.Z*radii.Z),
		).Normalize()
		samples[i] = NewSample(center.Add(offset), normal)
	}
	return samples
}

func unitSphereSamples(n int) []Sample {
	return ellipsoidSamples(n, geometry.Vector3{}, geometry.NewVector3(1, 1, 1))
}

// noisySphereSamples perturbs unit sphere points with Gaussian noise while
// keeping the analytic normals of the unperturbed points.
func noisySphereSamples(n int, sigma float64, seed int64) []Sample {
	rng := rand.New(rand.NewSource(seed))
	samples := make([]Sample, n)
	for i, d := range fibonacciSphere(n) {
		noise := geometry.NewVector3(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()).Mul(sigma)
		samples[i] = NewSample(d.Add(noise), d)
	}
	return samples
}

// ellipsoidCoefficients returns q for the ellipsoid sampled by ellipsoidSamples
func ellipsoidCoefficients(center, radii geometry.Vector3) Coefficients {
	ia, ib, ic := 1/(radii.X*radii.X), 1/(radii.Y*radii.Y), 1/(radii.Z*radii.Z)
	return Coefficients{
		ia, ib, ic,
		0, 0, 0,
		-2 * center.X * ia, -2 * center.Y * ib, -2 * center.Z * ic,
		center.X*center.X*ia + center.Y*center.Y*ib + center.Z*center.Z*ic - 1,
	}
}

// requireProportional checks got = λ·want for some non-zero λ, with tol
// relative to the largest entry of got.
func requireProportional(t *testing.T, want, got []float64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))

	var gw, ww, scale float64
	for i := range want {
		gw += got[i] * want[i]
		ww += want[i] * want[i]
		scale = math.Max(scale, math.Abs(got[i]))
	}
	require.NotZero(t, ww, "reference vector is zero")
	lambda := gw / ww
	require.NotZero(t, lambda, "vectors are orthogonal")

	for i := range want {
		require.InDeltaf(t, lambda*want[i], got[i], tol*scale,
			"entry %d: got %v, want %v·%v", i, got[i], lambda, want[i])
	}
}

func matrixEntries(m Matrix) []float64 {
	out := make([]float64, 0, 16)
	for i := range m {
		out = append(out, m[i][:]...)
	}
	return out
}
