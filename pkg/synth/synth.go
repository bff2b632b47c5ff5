// Package synth generates point clouds on known quadrics for trying out and
// testing the fitter.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/philipparndt/quadfit/pkg/quadric"
)

// Shape names a reference surface
type Shape string

const (
	Sphere    Shape = "sphere"
	Ellipsoid Shape = "ellipsoid"
	Cylinder  Shape = "cylinder"
	Plane     Shape = "plane"
)

// Shapes lists the supported shapes
var Shapes = []Shape{Sphere, Ellipsoid, Cylinder, Plane}

// ParseShape validates a shape name
func ParseShape(s string) (Shape, error) {
	for _, shape := range Shapes {
		if string(shape) == strings.ToLower(s) {
			return shape, nil
		}
	}
	return "", fmt.Errorf("unknown shape %q", s)
}

// Cloud is a generated sample set and the quadric it was drawn from
type Cloud struct {
	Shape     Shape
	Samples   []quadric.Sample
	Reference quadric.Coefficients
}

// Generate draws count points from shape. Positions are perturbed by
// Gaussian noise with standard deviation sigma; normals stay analytic.
func Generate(shape Shape, count int, sigma float64, seed int64) (*Cloud, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("noise must not be negative, got %v", sigma)
	}

	rng := rand.New(rand.NewSource(seed))
	cloud := &Cloud{Shape: shape, Samples: make([]quadric.Sample, count)}

	var surface func(i int) (geometry.Vector3, geometry.Vector3)
	switch shape {
	case Sphere:
		cloud.Reference = quadric.Coefficients{1, 1, 1, 0, 0, 0, 0, 0, 0, -1}
		surface = func(i int) (geometry.Vector3, geometry.Vector3) {
			d := fibonacci(i, count)
			return d, d
		}
	case Ellipsoid:
		// x²/4 + y² + z²/0.25 = 1
		cloud.Reference = quadric.Coefficients{0.25, 1, 4, 0, 0, 0, 0, 0, 0, -1}
		surface = func(i int) (geometry.Vector3, geometry.Vector3) {
			d := fibonacci(i, count)
			p := geometry.NewVector3(2*d.X, d.Y, 0.5*d.Z)
			return p, geometry.NewVector3(p.X/4, p.Y, p.Z*4).Normalize()
		}
	case Cylinder:
		// x² + y² = 1, z in [-1, 1]
		cloud.Reference = quadric.Coefficients{1, 1, 0, 0, 0, 0, 0, 0, 0, -1}
		surface = func(i int) (geometry.Vector3, geometry.Vector3) {
			theta := 2 * math.Pi * rng.Float64()
			n := geometry.NewVector3(math.Cos(theta), math.Sin(theta), 0)
			return geometry.NewVector3(n.X, n.Y, 2*rng.Float64()-1), n
		}
	case Plane:
		// z = 0
		cloud.Reference = quadric.Coefficients{0, 0, 0, 0, 0, 0, 0, 0, 1, 0}
		surface = func(i int) (geometry.Vector3, geometry.Vector3) {
			return geometry.NewVector3(2*rng.Float64()-1, 2*rng.Float64()-1, 0), geometry.NewVector3(0, 0, 1)
		}
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}

	for i := range cloud.Samples {
		p, n := surface(i)
		if sigma > 0 {
			p = p.Add(geometry.NewVector3(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()).Mul(sigma))
		}
		cloud.Samples[i] = quadric.NewSample(p, n)
	}
	return cloud, nil
}

// fibonacci returns the i-th of n evenly spread unit directions
func fibonacci(i, n int) geometry.Vector3 {
	golden := math.Pi * (3 - math.Sqrt(5))
	z := 1 - 2*(float64(i)+0.5)/float64(n)
	r := math.Sqrt(1 - z*z)
	phi := golden * float64(i)
	return geometry.NewVector3(r*math.Cos(phi), r*math.Sin(phi), z)
}
