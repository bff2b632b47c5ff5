package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/philipparndt/quadfit/pkg/analysis"
	"github.com/philipparndt/quadfit/pkg/meshio"
	"github.com/philipparndt/quadfit/pkg/quadric"
	"github.com/spf13/cobra"
)

var (
	fitMode        string
	fitRegionMin   []float64
	fitRegionMax   []float64
	fitTop         int
	fitEigenvalues bool
)

var fitCmd = &cobra.Command{
	Use:   "fit [file]",
	Short: "Fit a quadric to the points and normals of a mesh",
	Long: `Load an STL or OpenSCAD file, turn its facets into oriented samples and fit an implicit
quadric. Prints the coefficient vector, the symmetric matrix Q, deviation statistics
and any degeneracies found along the way.`,
	Args: cobra.ExactArgs(1),
	RunE: runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)
	addSampleFlags(fitCmd)
	fitCmd.Flags().IntVarP(&fitTop, "top", "n", 0, "List the N samples with the largest deviation")
	fitCmd.Flags().BoolVarP(&fitEigenvalues, "eigenvalues", "e", false, "Print the eigenvalues of AᵀA")
}

// addSampleFlags registers the flags that control how a mesh becomes samples
func addSampleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&fitMode, "mode", "m", "", "Sample mode: vertex (area-weighted vertex normals) or facet (facet centroids)")
	cmd.Flags().Float64SliceVar(&fitRegionMin, "min", nil, "Region minimum x,y,z; only samples inside the region are fitted")
	cmd.Flags().Float64SliceVar(&fitRegionMax, "max", nil, "Region maximum x,y,z")
	cmd.MarkFlagsRequiredTogether("min", "max")
}

func runFit(cmd *cobra.Command, args []string) error {
	filename := args[0]

	opts, cfg, err := fitSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	samples, err := loadSamples(cmd, filename, cfg.GetSampleMode())
	if err != nil {
		return err
	}

	_, err = runFitReport(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), samples, opts, analysis.ReportOptions{
		Name:        filename,
		Worst:       fitTop,
		Eigenvalues: fitEigenvalues,
	})
	return err
}

// loadSamples reads filename and extracts samples using the --mode flag,
// falling back to the configured mode
func loadSamples(cmd *cobra.Command, filename, configuredMode string) ([]quadric.Sample, error) {
	modeName := configuredMode
	if fitMode != "" {
		modeName = fitMode
	}
	mode, err := meshio.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	region, err := parseRegion(fitRegionMin, fitRegionMax)
	if err != nil {
		return nil, err
	}

	model, err := meshio.Load(cmd.Context(), filename)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %s: %d triangles", filename, model.TriangleCount())

	samples := meshio.Samples(model, mode, region)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples in %s (mode %s)", filename, mode)
	}
	return samples, nil
}
