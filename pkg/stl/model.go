package stl

import (
	"github.com/philipparndt/quadfit/pkg/geometry"
)

// Model represents a complete STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		for _, v := range triangle.Vertices() {
			bbox.Extend(v)
		}
	}
	return bbox
}

// OrientedPoint is a surface position with its unit normal
type OrientedPoint struct {
	Position geometry.Vector3
	Normal   geometry.Vector3
}

// VertexNormals returns every distinct vertex once, with the area-weighted
// average of the normals of the facets that share it. Vertices whose
// weighted normals cancel out are dropped.
func (m *Model) VertexNormals() []OrientedPoint {
	index := make(map[geometry.Vector3]int)
	var points []OrientedPoint
	for _, tri := range m.Triangles {
		weighted := tri.FacetNormal().Mul(tri.Area())
		for _, v := range tri.Vertices() {
			i, ok := index[v]
			if !ok {
				i = len(points)
				index[v] = i
				points = append(points, OrientedPoint{Position: v})
			}
			points[i].Normal = points[i].Normal.Add(weighted)
		}
	}

	out := points[:0]
	for _, p := range points {
		if p.Normal.Length() == 0 {
			continue
		}
		p.Normal = p.Normal.Normalize()
		out = append(out, p)
	}
	return out
}

// FacetCenters returns the centroid and normal of every non-degenerate facet
func (m *Model) FacetCenters() []OrientedPoint {
	points := make([]OrientedPoint, 0, len(m.Triangles))
	for _, tri := range m.Triangles {
		normal := tri.FacetNormal()
		if normal.Length() == 0 {
			continue
		}
		points = append(points, OrientedPoint{Position: tri.Center(), Normal: normal})
	}
	return points
}
