package main

import (
	"fmt"
	"strings"

	"github.com/philipparndt/quadfit/pkg/analysis"
	"github.com/philipparndt/quadfit/pkg/synth"
	"github.com/spf13/cobra"
)

var (
	sampleShape string
	sampleCount int
	sampleNoise float64
	sampleSeed  int64
	sampleTop   int
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Fit a generated point cloud on a known quadric",
	Long: `Generate points with analytic normals on a reference surface, optionally perturbed by
Gaussian noise, fit them and compare the result with the reference coefficients.`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	names := make([]string, len(synth.Shapes))
	for i, s := range synth.Shapes {
		names[i] = string(s)
	}
	sampleCmd.Flags().StringVarP(&sampleShape, "shape", "s", string(synth.Sphere), "Reference surface: "+strings.Join(names, ", "))
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 200, "Number of points")
	sampleCmd.Flags().Float64Var(&sampleNoise, "noise", 0, "Standard deviation of the Gaussian position noise")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 1, "Random seed")
	sampleCmd.Flags().IntVar(&sampleTop, "top", 0, "List the N samples with the largest deviation")
}

func runSample(cmd *cobra.Command, args []string) error {
	shape, err := synth.ParseShape(sampleShape)
	if err != nil {
		return err
	}
	opts, _, err := fitSettings(cmd)
	if err != nil {
		return err
	}

	cloud, err := synth.Generate(shape, sampleCount, sampleNoise, sampleSeed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result, err := runFitReport(cmd.Context(), out, cmd.ErrOrStderr(), cloud.Samples, opts, analysis.ReportOptions{
		Name:  fmt.Sprintf("%s (%d points, noise %g, seed %d)", shape, sampleCount, sampleNoise, sampleSeed),
		Worst: sampleTop,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nReference: %s\n", analysis.FormatCoefficients(cloud.Reference.Normalized()))
	match := "no"
	if result.Coefficients.Proportional(cloud.Reference, 1e-6) {
		match = "yes"
	}
	fmt.Fprintf(out, "Matches reference: %s\n", match)
	return nil
}
