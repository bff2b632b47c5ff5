package main

import (
	"fmt"

	"github.com/philipparndt/quadfit/pkg/analysis"
	"github.com/philipparndt/quadfit/pkg/meshio"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display what a mesh provides for fitting",
	Long:  "Show the bounding box, surface area and the number of samples each sample mode yields.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	model, err := meshio.Load(cmd.Context(), filename)
	if err != nil {
		return err
	}

	area := 0.0
	for _, t := range model.Triangles {
		area += t.Area()
	}
	bbox := model.BoundingBox()
	size := bbox.Size()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Mesh Information")
	fmt.Fprintln(out, "================")
	if model.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", model.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintf(out, "Triangles: %d\n", model.TriangleCount())
	fmt.Fprintf(out, "Surface Area: %.6f square units\n\n", area)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(bbox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(bbox.Max))
	fmt.Fprintf(out, "  Center: %s\n", analysis.FormatVector(bbox.Center()))
	fmt.Fprintf(out, "  Size: %.6f x %.6f x %.6f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(out, "  Diagonal: %.6f units\n\n", bbox.Diagonal())

	fmt.Fprintln(out, "Samples:")
	for _, mode := range []meshio.Mode{meshio.VertexMode, meshio.FacetMode} {
		fmt.Fprintf(out, "  %-7s %d\n", mode+":", len(meshio.Samples(model, mode, nil)))
	}
	return nil
}
