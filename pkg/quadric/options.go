package quadric

import (
	"fmt"
	"math"
)

const (
	// DefaultNullspaceThreshold is the eigenvalue cutoff for nullspace membership.
	DefaultNullspaceThreshold = 1e-10
	// DefaultConstraintThreshold is the cutoff that triggers regularization.
	DefaultConstraintThreshold = 1e-10
	// DefaultRegularizationScale multiplies DefaultRegularizationShape.
	DefaultRegularizationScale = 1e-6
)

// DefaultRegularizationShape weights the fallback penalty per coefficient in
// q order: squared terms, mixed terms, then linear and constant terms, which
// are left free.
var DefaultRegularizationShape = [NumCoefficients]float64{1, 1, 1, 10, 10, 10, 0, 0, 0, 0}

// Options tunes a fit
type Options struct {
	NullspaceThreshold    float64                  // ε₁: eigenvalues of AᵀA below this span the nullspace
	ConstraintThreshold   float64                  // ε₂: reduced-system values below this trigger regularization
	RegularizationWeights [NumCoefficients]float64 // diagonal added to BᵀB on fallback
	Workers               int                      // goroutines used for accumulation; <= 1 is sequential
}

// DefaultOptions returns the recommended thresholds and regularizer
func DefaultOptions() Options {
	return Options{
		NullspaceThreshold:    DefaultNullspaceThreshold,
		ConstraintThreshold:   DefaultConstraintThreshold,
		RegularizationWeights: ScaledWeights(DefaultRegularizationScale),
		Workers:               1,
	}
}

// ScaledWeights returns DefaultRegularizationShape multiplied by scale
func ScaledWeights(scale float64) [NumCoefficients]float64 {
	var w [NumCoefficients]float64
	for i, shape := range DefaultRegularizationShape {
		w[i] = shape * scale
	}
	return w
}

// Validate checks that thresholds are positive and the regularizer is usable
func (o Options) Validate() error {
	if !(o.NullspaceThreshold > 0) || math.IsInf(o.NullspaceThreshold, 0) {
		return fmt.Errorf("%w: nullspace threshold must be positive, got %v", ErrInvalidOptions, o.NullspaceThreshold)
	}
	if !(o.ConstraintThreshold > 0) || math.IsInf(o.ConstraintThreshold, 0) {
		return fmt.Errorf("%w: constraint threshold must be positive, got %v", ErrInvalidOptions, o.ConstraintThreshold)
	}
	var total float64
	for i, w := range o.RegularizationWeights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("%w: regularization weight %d must be finite and non-negative, got %v", ErrInvalidOptions, i, w)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: regularization weights are all zero", ErrInvalidOptions)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}
