package quadric

import (
	"math"

	"github.com/philipparndt/quadfit/pkg/geometry"
)

// NumCoefficients is the number of distinct entries of a symmetric 4×4 form
const NumCoefficients = 10

// Coefficients is the vector q of an implicit quadric in the order
//
//	[q11, q22, q33, q12+q21, q13+q31, q23+q32, q14+q41, q24+q42, q34+q43, q44]
//
// so that f(x, y, z) = algebraicRow(x, y, z)·q.
type Coefficients [NumCoefficients]float64

// Matrix is the symmetric 4×4 form Q with f(p) = pᵀ·Q·p for p = [x, y, z, 1]
type Matrix [4][4]float64

// Sample is one input point together with its surface normal
type Sample struct {
	Position geometry.Vector3
	Normal   geometry.Vector3
}

// NewSample creates a sample from a position and normal
func NewSample(position, normal geometry.Vector3) Sample {
	return Sample{Position: position, Normal: normal}
}

// algebraicRow returns a = [x², y², z², xy, xz, yz, x, y, z, 1]
func algebraicRow(p geometry.Vector3) [NumCoefficients]float64 {
	x, y, z := p.X, p.Y, p.Z
	return [NumCoefficients]float64{x * x, y * y, z * z, x * y, x * z, y * z, x, y, z, 1}
}

// gradientRows returns the partial derivatives of f with respect to x, y and
// z as linear forms in q.
func gradientRows(p geometry.Vector3) [3][NumCoefficients]float64 {
	x, y, z := p.X, p.Y, p.Z
	return [3][NumCoefficients]float64{
		{2 * x, 0, 0, y, z, 0, 1, 0, 0, 0},
		{0, 2 * y, 0, x, 0, z, 0, 1, 0, 0},
		{0, 0, 2 * z, 0, x, y, 0, 0, 1, 0},
	}
}

func dot(a, b [NumCoefficients]float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Eval returns the algebraic distance f(p)
func (q Coefficients) Eval(p geometry.Vector3) float64 {
	return dot(algebraicRow(p), q)
}

// Gradient returns ∇f(p)
func (q Coefficients) Gradient(p geometry.Vector3) geometry.Vector3 {
	rows := gradientRows(p)
	return geometry.NewVector3(dot(rows[0], q), dot(rows[1], q), dot(rows[2], q))
}

// Matrix reconstructs Q. Paired coefficients are split evenly over the two
// symmetric positions, so the result is exactly symmetric.
func (q Coefficients) Matrix() Matrix {
	m := Matrix{
		{2 * q[0], q[3], q[4], q[6]},
		{q[3], 2 * q[1], q[5], q[7]},
		{q[4], q[5], 2 * q[2], q[8]},
		{q[6], q[7], q[8], 2 * q[9]},
	}
	for i := range m {
		for j := range m[i] {
			m[i][j] /= 2
		}
	}
	return m
}

// Coefficients folds Q back into q
func (m Matrix) Coefficients() Coefficients {
	return Coefficients{
		m[0][0], m[1][1], m[2][2],
		m[0][1] + m[1][0], m[0][2] + m[2][0], m[1][2] + m[2][1],
		m[0][3] + m[3][0], m[1][3] + m[3][1], m[2][3] + m[3][2],
		m[3][3],
	}
}

// IsSymmetric reports whether Q equals its transpose exactly
func (m Matrix) IsSymmetric() bool {
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if m[i][j] != m[j][i] {
				return false
			}
		}
	}
	return true
}

// Eval returns pᵀ·Q·p for p = [x, y, z, 1]
func (m Matrix) Eval(p geometry.Vector3) float64 {
	h := [4]float64{p.X, p.Y, p.Z, 1}
	var sum float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum += h[i] * m[i][j] * h[j]
		}
	}
	return sum
}

// Norm returns the Euclidean norm of q
func (q Coefficients) Norm() float64 {
	return math.Sqrt(dot(q, q))
}

// IsFinite reports whether every coefficient is a finite number
func (q Coefficients) IsFinite() bool {
	for _, c := range q {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Normalized scales q so that its largest-magnitude coefficient is +1.
// Two fits describing the same surface normalize to the same vector. The
// zero vector is returned unchanged.
func (q Coefficients) Normalized() Coefficients {
	pivot := 0.0
	for _, c := range q {
		if math.Abs(c) > math.Abs(pivot) {
			pivot = c
		}
	}
	if pivot == 0 {
		return q
	}
	var out Coefficients
	for i, c := range q {
		out[i] = c / pivot
	}
	return out
}

// Proportional reports whether q = λ·other for some non-zero λ, with each
// coefficient within tol of the scaled reference, relative to the largest
// coefficient of q.
func (q Coefficients) Proportional(other Coefficients, tol float64) bool {
	oo := dot(other, other)
	if oo == 0 {
		return false
	}
	lambda := dot(q, other) / oo
	if lambda == 0 {
		return false
	}
	var scale float64
	for _, c := range q {
		scale = math.Max(scale, math.Abs(c))
	}
	for i := range q {
		if math.Abs(q[i]-lambda*other[i]) > tol*scale {
			return false
		}
	}
	return true
}
