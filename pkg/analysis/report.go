package analysis

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/philipparndt/quadfit/pkg/quadric"
)

// coefficientNames labels q in storage order
var coefficientNames = [quadric.NumCoefficients]string{
	"q11", "q22", "q33", "q12+q21", "q13+q31", "q23+q32", "q14+q41", "q24+q42", "q34+q43", "q44",
}

// SampleDeviation pairs a sample with its deviation from the fitted surface
type SampleDeviation struct {
	Index     int
	Position  geometry.Vector3
	Deviation float64
}

// WorstSamples returns the count samples with the largest absolute
// deviation, largest first. Samples with an undefined deviation come first.
func WorstSamples(samples []quadric.Sample, deviations []float64, count int) []SampleDeviation {
	worst := make([]SampleDeviation, 0, len(deviations))
	for i, d := range deviations {
		worst = append(worst, SampleDeviation{Index: i, Position: samples[i].Position, Deviation: d})
	}

	sort.SliceStable(worst, func(i, j int) bool {
		di, dj := worst[i].Deviation, worst[j].Deviation
		if math.IsNaN(di) || math.IsNaN(dj) {
			return math.IsNaN(di) && !math.IsNaN(dj)
		}
		return math.Abs(di) > math.Abs(dj)
	})

	if count > len(worst) {
		count = len(worst)
	}
	return worst[:count]
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

// FormatCoefficients formats q as a bracketed list
func FormatCoefficients(q quadric.Coefficients) string {
	parts := make([]string, len(q))
	for i, c := range q {
		parts[i] = fmt.Sprintf("%.6g", c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatMatrix formats Q as four aligned rows
func FormatMatrix(m quadric.Matrix) string {
	var b strings.Builder
	for i, row := range m {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  [%12.6g %12.6g %12.6g %12.6g]", row[0], row[1], row[2], row[3])
	}
	return b.String()
}

// ReportOptions controls WriteReport
type ReportOptions struct {
	Name        string
	Worst       int
	Eigenvalues bool
}

// WriteReport prints a fit result in the CLI's plain-text layout
func WriteReport(w io.Writer, result *quadric.Result, samples []quadric.Sample, opts ReportOptions) {
	fmt.Fprintln(w, "Quadric Fit")
	fmt.Fprintln(w, "===========")
	if opts.Name != "" {
		fmt.Fprintf(w, "Source: %s\n", opts.Name)
	}
	fmt.Fprintf(w, "Samples: %d\n", result.SampleCount)
	fmt.Fprintf(w, "Nullspace dimension: %d\n\n", result.NullspaceDim)

	fmt.Fprintln(w, "Coefficients:")
	q := result.Coefficients
	for i, c := range q {
		fmt.Fprintf(w, "  %-8s %14.8g\n", coefficientNames[i], c)
	}
	fmt.Fprintf(w, "  normalized: %s\n\n", FormatCoefficients(q.Normalized()))

	fmt.Fprintln(w, "Matrix Q (f(p) = pᵀ·Q·p, p = [x, y, z, 1]):")
	fmt.Fprintln(w, FormatMatrix(result.Matrix))
	fmt.Fprintln(w)

	if opts.Eigenvalues {
		fmt.Fprintln(w, "Eigenvalues of AᵀA:")
		for i, v := range result.Eigenvalues {
			fmt.Fprintf(w, "  λ%-2d %.6e\n", i, v)
		}
		fmt.Fprintln(w)
	}

	WriteStats(w, result.Stats)

	if opts.Worst > 0 && len(samples) == len(result.Deviations) {
		worst := WorstSamples(samples, result.Deviations, opts.Worst)
		fmt.Fprintf(w, "\nTop %d Deviations:\n", len(worst))
		fmt.Fprintf(w, "%-8s %-35s %-15s\n", "Index", "Position", "Deviation")
		for _, s := range worst {
			fmt.Fprintf(w, "%-8d %-35s %-15.6g\n", s.Index, FormatVector(s.Position), s.Deviation)
		}
	}
}

// WriteStats prints the deviation summary
func WriteStats(w io.Writer, stats quadric.Stats) {
	fmt.Fprintln(w, "Deviation (f/|∇f|):")
	fmt.Fprintf(w, "  Minimum: %.6g\n", stats.Min)
	fmt.Fprintf(w, "  Maximum: %.6g\n", stats.Max)
	fmt.Fprintf(w, "  Mean: %.6g\n", stats.Mean)
	fmt.Fprintf(w, "  Mean |d|: %.6g\n", stats.MeanAbs)
	fmt.Fprintf(w, "  Median |d|: %.6g\n", stats.MedianAbs)
	if stats.Singular > 0 {
		fmt.Fprintf(w, "  Excluded (vanishing gradient): %d of %d\n", stats.Singular, stats.Singular+stats.Valid)
	}
}

// WriteDiagnostics prints one line per diagnostic
func WriteDiagnostics(w io.Writer, diags quadric.Diagnostics) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
	}
}
