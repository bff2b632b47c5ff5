package quadric

import (
	"context"
	"errors"
)

// minSamples is the number of coefficients in q; fewer samples cannot
// determine a quadric from positions alone.
const minSamples = NumCoefficients

// Result is the outcome of a fit
type Result struct {
	Coefficients Coefficients
	Matrix       Matrix
	// Deviations has one entry per input sample, NaN where undefined.
	Deviations  []float64
	Stats       Stats
	Eigenvalues []float64
	// NullspaceDim is the number of basis vectors the selector worked in.
	NullspaceDim int
	SampleCount  int
	Diagnostics  Diagnostics
}

// Fit fits a quadric to samples. Degenerate inputs are recovered locally and
// reported in Result.Diagnostics. An error is returned for invalid input or
// options, cancellation, or a *FitError wrapping ErrNumericalInstability when
// the solve breaks down.
func Fit(ctx context.Context, samples []Sample, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	acc, err := AccumulateParallel(ctx, samples, opts.Workers)
	if err != nil {
		return nil, err
	}

	var diags Diagnostics
	if acc.Count() < minSamples {
		diags = append(diags, newDiagnostic(InsufficientData, Warning, acc.Count(),
			"only %d samples, at least %d are needed to determine a quadric", acc.Count(), minSamples))
	}

	ns, nsDiags, err := SolveNullspace(acc.AtA(), opts.NullspaceThreshold)
	diags = append(diags, nsDiags...)
	if err != nil {
		return nil, fail("nullspace", err, diags)
	}
	if ns.K > 1 && acc.Count() >= minSamples {
		diags = append(diags, newDiagnostic(InsufficientData, Warning, ns.K,
			"points satisfy a %d-dimensional family of quadrics, the normals alone choose the fit", ns.K))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, selDiags, err := SelectCoefficients(ns, acc.BtB(), acc.BtN(), opts)
	diags = append(diags, selDiags...)
	if err != nil {
		return nil, fail("select", err, diags)
	}

	deviations, stats, qualityDiags := Evaluate(q, samples)
	diags = append(diags, qualityDiags...)

	return &Result{
		Coefficients: q,
		Matrix:       q.Matrix(),
		Deviations:   deviations,
		Stats:        stats,
		Eigenvalues:  ns.Eigenvalues,
		NullspaceDim: ns.K,
		SampleCount:  acc.Count(),
		Diagnostics:  diags,
	}, nil
}

func fail(stage string, err error, diags Diagnostics) error {
	if errors.Is(err, ErrNumericalInstability) {
		diags = append(diags, newDiagnostic(NumericalInstability, Error, 0, "%v", err))
	}
	return &FitError{Stage: stage, Err: err, Diagnostics: diags}
}
