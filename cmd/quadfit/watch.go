package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/philipparndt/quadfit/pkg/analysis"
	"github.com/philipparndt/quadfit/pkg/meshio"
	"github.com/philipparndt/quadfit/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Refit a mesh every time it changes",
	Long: `Fit the mesh once, then watch it (and, for OpenSCAD files, every used or included
file) and print a fresh fit after each change. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addSampleFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period after a change before refitting")
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := args[0]

	opts, cfg, err := fitSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	files, err := meshio.WatchList(filename)
	if err != nil {
		return fmt.Errorf("failed to resolve dependencies: %w", err)
	}

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(files...); err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	refit := func() {
		samples, err := loadSamples(cmd, filename, cfg.GetSampleMode())
		if err == nil {
			_, err = runFitReport(ctx, out, errOut, samples, opts, analysis.ReportOptions{Name: filename})
		}
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}

	refit()
	fmt.Fprintf(errOut, "\nWatching %d file(s) for changes:\n", len(files))
	for _, f := range files {
		fmt.Fprintf(errOut, "  %s\n", f)
	}

	err = fw.Run(ctx, func(path string) {
		fmt.Fprintf(out, "\n%s changed at %s\n\n", path, time.Now().Format(time.TimeOnly))
		refit()
	}, func(err error) {
		fmt.Fprintf(errOut, "Watcher error: %v\n", err)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
