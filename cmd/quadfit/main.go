package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/philipparndt/quadfit/version"
	"github.com/spf13/cobra"
)

var (
	configPath          string
	nullspaceThreshold  float64
	constraintThreshold float64
	regularizationScale float64
	workers             int
	verbose             bool
)

var rootCmd = &cobra.Command{
	Use:   "quadfit",
	Short: "Fit implicit quadric surfaces to meshes",
	Long: `quadfit fits an implicit quadric surface pᵀ·Q·p = 0 to the points and normals of a
mesh (STL, or OpenSCAD rendered to STL). The fit finds the nullspace of the algebraic
distance system and then picks the solution whose gradient best matches the normals.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(log.Ltime | log.Lmicroseconds)
		log.SetPrefix("quadfit: ")
		if verbose {
			log.SetOutput(cmd.ErrOrStderr())
		} else {
			log.SetOutput(io.Discard)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "JSON file with fit options")
	flags.Float64Var(&nullspaceThreshold, "nullspace-threshold", 1e-10, "Eigenvalue cutoff for nullspace membership")
	flags.Float64Var(&constraintThreshold, "constraint-threshold", 1e-10, "Cutoff on the reduced normal system that triggers regularization")
	flags.Float64Var(&regularizationScale, "regularization-scale", 1e-6, "Scale of the per-coefficient regularization weights")
	flags.IntVarP(&workers, "workers", "j", 1, "Goroutines used to accumulate samples")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log fit progress to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
