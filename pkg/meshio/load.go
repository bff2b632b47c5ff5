// Package meshio loads meshes from disk and turns them into fit samples.
package meshio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/philipparndt/quadfit/pkg/openscad"
	"github.com/philipparndt/quadfit/pkg/quadric"
	"github.com/philipparndt/quadfit/pkg/stl"
)

// Load reads an .stl file, or renders an .scad file to a temporary STL first
func Load(ctx context.Context, path string) (*stl.Model, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		model, err := stl.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STL file: %w", err)
		}
		return model, nil

	case ".scad":
		tmp, err := os.CreateTemp("", "quadfit-*.stl")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary STL: %w", err)
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		renderer := openscad.NewRenderer(filepath.Dir(path))
		if err := renderer.RenderToSTL(ctx, path, tmp.Name()); err != nil {
			return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
		}
		model, err := stl.Parse(tmp.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unsupported file type: %s (expected .stl or .scad)", ext)
	}
}

// WatchList returns the files whose changes affect the mesh loaded from path
func WatchList(path string) ([]string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".scad" {
		return []string{path}, nil
	}
	return openscad.NewRenderer(filepath.Dir(path)).ResolveDependencies(filepath.Base(path))
}

// Mode selects how mesh facets become samples
type Mode string

const (
	// VertexMode uses each distinct vertex with its area-weighted normal
	VertexMode Mode = "vertex"
	// FacetMode uses each facet centroid with the facet normal
	FacetMode Mode = "facet"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case VertexMode, FacetMode:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sample mode %q (expected %q or %q)", s, VertexMode, FacetMode)
	}
}

// Samples extracts fit samples from model. When region is non-nil only
// points inside it are kept.
func Samples(model *stl.Model, mode Mode, region *geometry.BoundingBox) []quadric.Sample {
	var points []stl.OrientedPoint
	if mode == FacetMode {
		points = model.FacetCenters()
	} else {
		points = model.VertexNormals()
	}

	samples := make([]quadric.Sample, 0, len(points))
	for _, p := range points {
		if region != nil && !region.Contains(p.Position) {
			continue
		}
		samples = append(samples, quadric.NewSample(p.Position, p.Normal))
	}
	return samples
}
