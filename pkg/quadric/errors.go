package quadric

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSamples is returned when a fit is requested for an empty sample set.
	ErrNoSamples = errors.New("quadric: no samples")

	// ErrInvalidSample is returned when a position or normal is NaN or infinite.
	ErrInvalidSample = errors.New("quadric: non-finite sample")

	// ErrInvalidOptions is returned by Options.Validate.
	ErrInvalidOptions = errors.New("quadric: invalid options")

	// ErrNumericalInstability is the only fatal fit condition: the regularized
	// solve produced coefficients that cannot be trusted.
	ErrNumericalInstability = errors.New("quadric: numerical instability")
)

// FitError reports a fit that failed after some stages already ran. It keeps
// the diagnostics gathered up to the failure.
type FitError struct {
	Stage       string
	Err         error
	Diagnostics Diagnostics
}

func (e *FitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FitError) Unwrap() error {
	return e.Err
}
