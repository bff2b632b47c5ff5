package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/philipparndt/quadfit/internal/config"
	"github.com/philipparndt/quadfit/pkg/analysis"
	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/philipparndt/quadfit/pkg/quadric"
	"github.com/spf13/cobra"
)

// fitSettings merges the config file with flags the user set explicitly
func fitSettings(cmd *cobra.Command) (quadric.Options, *config.FitConfig, error) {
	cfg := &config.FitConfig{}
	if configPath != "" {
		loaded, err := config.LoadFitConfig(configPath)
		if err != nil {
			return quadric.Options{}, nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("nullspace-threshold") {
		cfg.NullspaceThreshold = &nullspaceThreshold
	}
	if flags.Changed("constraint-threshold") {
		cfg.ConstraintThreshold = &constraintThreshold
	}
	if flags.Changed("regularization-scale") {
		cfg.RegularizationWeights = nil
		cfg.RegularizationScale = &regularizationScale
	}
	if flags.Changed("workers") {
		cfg.Workers = &workers
	}

	opts := cfg.Options()
	if err := opts.Validate(); err != nil {
		return quadric.Options{}, nil, err
	}
	return opts, cfg, nil
}

// parseRegion turns the --min/--max flag values into a box, nil when unset
func parseRegion(lo, hi []float64) (*geometry.BoundingBox, error) {
	if len(lo) == 0 && len(hi) == 0 {
		return nil, nil
	}
	if len(lo) != 3 || len(hi) != 3 {
		return nil, fmt.Errorf("--min and --max need three values each (x,y,z)")
	}
	box := geometry.BoundingBox{
		Min: geometry.NewVector3(lo[0], lo[1], lo[2]),
		Max: geometry.NewVector3(hi[0], hi[1], hi[2]),
	}
	if box.Min.X > box.Max.X || box.Min.Y > box.Max.Y || box.Min.Z > box.Max.Z {
		return nil, fmt.Errorf("region minimum %s exceeds maximum %s",
			analysis.FormatVector(box.Min), analysis.FormatVector(box.Max))
	}
	return &box, nil
}

// runFitReport fits samples and prints the report to out and diagnostics to errOut
func runFitReport(ctx context.Context, out, errOut io.Writer, samples []quadric.Sample, opts quadric.Options, report analysis.ReportOptions) (*quadric.Result, error) {
	log.Printf("fitting %d samples (workers=%d)", len(samples), opts.Workers)
	result, err := quadric.Fit(ctx, samples, opts)
	if err != nil {
		var fitErr *quadric.FitError
		if errors.As(err, &fitErr) {
			analysis.WriteDiagnostics(errOut, fitErr.Diagnostics)
		}
		return nil, fmt.Errorf("fit failed: %w", err)
	}
	log.Printf("nullspace dimension %d, %d diagnostic(s)", result.NullspaceDim, len(result.Diagnostics))

	analysis.WriteReport(out, result, samples, report)
	analysis.WriteDiagnostics(errOut, result.Diagnostics)
	return result, nil
}
