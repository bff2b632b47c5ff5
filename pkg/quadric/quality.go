package quadric

import (
	"math"
	"sort"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the deviations of a fit. Samples with a vanishing gradient
// are excluded from every figure and counted in Singular.
type Stats struct {
	Min       float64
	Max       float64
	Mean      float64
	MeanAbs   float64
	MedianAbs float64
	Valid     int
	Singular  int
}

// Deviation returns f(p)/‖∇f(p)‖, the first order approximation of the
// signed distance from p to the zero set. ok is false when the gradient
// vanishes at p, in which case NaN is returned.
func (q Coefficients) Deviation(p geometry.Vector3) (float64, bool) {
	grad := q.Gradient(p).Length()
	if grad == 0 {
		return math.NaN(), false
	}
	return q.Eval(p) / grad, true
}

// Evaluate computes the deviation of every sample from the surface q. The
// returned slice has the order and length of samples; NaN marks samples where
// the gradient vanishes, each reported as a SingularGradient warning.
func Evaluate(q Coefficients, samples []Sample) ([]float64, Stats, Diagnostics) {
	deviations := make([]float64, len(samples))
	var diags Diagnostics
	for i, s := range samples {
		d, ok := q.Deviation(s.Position)
		if !ok {
			diag := newDiagnostic(SingularGradient, Warning, 1,
				"gradient vanishes at %v, deviation undefined", s.Position)
			diag.Index = i
			diags = append(diags, diag)
		}
		deviations[i] = d
	}
	return deviations, Summarize(deviations), diags
}

// Summarize computes Stats over deviations, skipping NaN sentinels. With no
// valid values every figure is NaN.
func Summarize(deviations []float64) Stats {
	valid := make([]float64, 0, len(deviations))
	for _, d := range deviations {
		if !math.IsNaN(d) {
			valid = append(valid, d)
		}
	}
	stats := Stats{Valid: len(valid), Singular: len(deviations) - len(valid)}
	if len(valid) == 0 {
		nan := math.NaN()
		stats.Min, stats.Max, stats.Mean, stats.MeanAbs, stats.MedianAbs = nan, nan, nan, nan, nan
		return stats
	}

	abs := make([]float64, len(valid))
	for i, d := range valid {
		abs[i] = math.Abs(d)
	}
	sort.Float64s(abs)

	stats.Min = floats.Min(valid)
	stats.Max = floats.Max(valid)
	stats.Mean = stat.Mean(valid, nil)
	stats.MeanAbs = stat.Mean(abs, nil)
	stats.MedianAbs = median(abs)
	return stats
}

// median of an ascending slice
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
