package quadric

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Nullspace is the approximate nullspace of AᵀA
type Nullspace struct {
	// Eigenvalues of AᵀA in ascending order.
	Eigenvalues []float64
	// Basis holds the K eigenvectors with the smallest eigenvalues as
	// orthonormal columns (10×K).
	Basis *mat.Dense
	// K is the nullspace dimension used by the selector, at least 1.
	K int
	// Forced is set when no eigenvalue fell below the threshold and K was
	// raised to 1.
	Forced bool
}

// SolveNullspace eigendecomposes AᵀA and keeps the eigenvectors whose
// eigenvalues are below threshold. When there are none the smallest
// eigenvector is used and a DegenerateNullspace warning is returned.
func SolveNullspace(ata mat.Symmetric, threshold float64) (*Nullspace, Diagnostics, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(ata, true); !ok {
		return nil, nil, fmt.Errorf("eigendecomposition of AᵀA did not converge: %w", ErrNumericalInstability)
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	k := 0
	for _, v := range values {
		if v < threshold {
			k++
		}
	}

	var diags Diagnostics
	ns := &Nullspace{Eigenvalues: values, K: k}
	if k == 0 {
		ns.K = 1
		ns.Forced = true
		diags = append(diags, newDiagnostic(DegenerateNullspace, Warning, 0,
			"no eigenvalue of AᵀA below %g (smallest %g); the points do not look like a quadric, fit will be unreliable",
			threshold, values[0]))
	}

	n, _ := vectors.Dims()
	ns.Basis = mat.DenseCopyOf(vectors.Slice(0, n, 0, ns.K))
	return ns, diags, nil
}
