package main

import (
	"fmt"

	"github.com/philipparndt/quadfit/pkg/analysis"
	"github.com/philipparndt/quadfit/pkg/quadric"
	"github.com/spf13/cobra"
)

var (
	evalCoefficients []float64
	evalTop          int
)

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Measure how well a given quadric matches a mesh",
	Long: `Evaluate the deviation f(p)/|∇f(p)| of every sample of a mesh from the quadric with the
given coefficients q = [q11, q22, q33, q12+q21, q13+q31, q23+q32, q14+q41, q24+q42, q34+q43, q44].`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	addSampleFlags(evalCmd)
	evalCmd.Flags().Float64SliceVar(&evalCoefficients, "q", nil, "Ten comma separated quadric coefficients")
	evalCmd.Flags().IntVarP(&evalTop, "top", "n", 0, "List the N samples with the largest deviation")
	_ = evalCmd.MarkFlagRequired("q")
}

func runEval(cmd *cobra.Command, args []string) error {
	filename := args[0]

	if len(evalCoefficients) != quadric.NumCoefficients {
		return fmt.Errorf("--q needs %d coefficients, got %d", quadric.NumCoefficients, len(evalCoefficients))
	}
	var q quadric.Coefficients
	copy(q[:], evalCoefficients)
	if !q.IsFinite() || q.Norm() == 0 {
		return fmt.Errorf("--q must be finite and not all zero")
	}

	_, cfg, err := fitSettings(cmd)
	if err != nil {
		return err
	}
	samples, err := loadSamples(cmd, filename, cfg.GetSampleMode())
	if err != nil {
		return err
	}

	deviations, stats, diags := quadric.Evaluate(q, samples)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Quadric Evaluation")
	fmt.Fprintln(out, "==================")
	fmt.Fprintf(out, "Source: %s\n", filename)
	fmt.Fprintf(out, "Samples: %d\n", len(samples))
	fmt.Fprintf(out, "Coefficients: %s\n\n", analysis.FormatCoefficients(q))
	analysis.WriteStats(out, stats)

	if evalTop > 0 {
		worst := analysis.WorstSamples(samples, deviations, evalTop)
		fmt.Fprintf(out, "\nTop %d Deviations:\n", len(worst))
		for _, s := range worst {
			fmt.Fprintf(out, "%-8d %-35s %-15.6g\n", s.Index, analysis.FormatVector(s.Position), s.Deviation)
		}
	}

	analysis.WriteDiagnostics(cmd.ErrOrStderr(), diags)
	return nil
}
