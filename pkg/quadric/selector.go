package quadric

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// reducedSystem is M = Vᵀ·BᵀB·V with rhs = Vᵀ·BᵀN and the eigendecomposition of M
type reducedSystem struct {
	values  []float64
	vectors mat.Dense
	rhs     mat.VecDense
}

func reduce(basis *mat.Dense, btb mat.Symmetric, btn mat.Vector) (*reducedSystem, error) {
	_, k := basis.Dims()

	var tmp, m mat.Dense
	tmp.Mul(basis.T(), btb)
	m.Mul(&tmp, basis)

	// Average the triangles so rounding in the products cannot break symmetry.
	sym := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			sym.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, fmt.Errorf("eigendecomposition of the reduced normal system did not converge: %w", ErrNumericalInstability)
	}
	rs := &reducedSystem{values: eig.Values(nil)}
	eig.VectorsTo(&rs.vectors)
	rs.rhs.MulVec(basis.T(), btn)
	return rs, nil
}

func (rs *reducedSystem) countBelow(threshold float64) int {
	n := 0
	for _, v := range rs.values {
		if v < threshold {
			n++
		}
	}
	return n
}

// solve applies the pseudo-inverse of M to rhs. Directions with a value
// below threshold contribute nothing to c.
func (rs *reducedSystem) solve(threshold float64) *mat.VecDense {
	k := len(rs.values)
	c := mat.NewVecDense(k, nil)
	for i, s := range rs.values {
		if s < threshold {
			continue
		}
		u := rs.vectors.ColView(i)
		c.AddScaledVec(c, mat.Dot(u, &rs.rhs)/s, u)
	}
	return c
}

// SelectCoefficients picks q = V·c inside the nullspace basis V so that the
// gradient of the quadric matches the normals in the least squares sense,
// minimizing ‖B·V·c − N‖².
//
// When the reduced system Vᵀ·BᵀB·V has a value below opts.ConstraintThreshold
// the normals do not pin down c; the regularizer diag(opts.RegularizationWeights)
// is then added to BᵀB and the system rebuilt once.
func SelectCoefficients(ns *Nullspace, btb mat.Symmetric, btn mat.Vector, opts Options) (Coefficients, Diagnostics, error) {
	var diags Diagnostics

	rs, err := reduce(ns.Basis, btb, btn)
	if err != nil {
		return Coefficients{}, diags, err
	}

	if below := rs.countBelow(opts.ConstraintThreshold); below > 0 {
		diags = append(diags, newDiagnostic(UnderconstrainedNormals, Info, below,
			"normals do not constrain the solution fully (%d of %d directions), adding prior for regularization",
			below, ns.K))

		n := btb.SymmetricDim()
		regularized := mat.NewSymDense(n, nil)
		regularized.CopySym(btb)
		for i := 0; i < n && i < NumCoefficients; i++ {
			regularized.SetSym(i, i, regularized.At(i, i)+opts.RegularizationWeights[i])
		}
		if rs, err = reduce(ns.Basis, regularized, btn); err != nil {
			return Coefficients{}, diags, err
		}

		if truncated := rs.countBelow(opts.ConstraintThreshold); truncated > 0 {
			diags = append(diags, newDiagnostic(UnderconstrainedNormals, Warning, truncated,
				"%d direction(s) remain unconstrained after regularization and were dropped from the solution",
				truncated))
		}
	}

	c := rs.solve(opts.ConstraintThreshold)
	var qv mat.VecDense
	qv.MulVec(ns.Basis, c)

	var q Coefficients
	for i := range q {
		q[i] = qv.AtVec(i)
	}
	if !q.IsFinite() {
		return Coefficients{}, diags, fmt.Errorf("coefficients are not finite: %w", ErrNumericalInstability)
	}
	if q.Norm() == 0 {
		return Coefficients{}, diags, fmt.Errorf("normals select the zero quadric: %w", ErrNumericalInstability)
	}
	return q, diags, nil
}
