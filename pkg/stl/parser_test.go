package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/quadfit/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiTriangle = `solid probe
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid probe
`

func binarySTL(t *testing.T, header string, facets []binaryFacet) []byte {
	t.Helper()
	var buf bytes.Buffer
	h := make([]byte, binaryHeaderSize)
	copy(h, header)
	buf.Write(h)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(facets))))
	for _, f := range facets {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, f))
	}
	return buf.Bytes()
}

func TestParseASCII(t *testing.T) {
	model, err := ParseBytes([]byte(asciiTriangle))
	require.NoError(t, err)

	assert.Equal(t, "probe", model.Name)
	require.Equal(t, 1, model.TriangleCount())
	tri := model.Triangles[0]
	assert.Equal(t, geometry.NewVector3(0, 0, 1), tri.Normal)
	assert.Equal(t, geometry.NewVector3(1, 0, 0), tri.V2)
}

func TestParseASCIIRejectsBadNumbers(t *testing.T) {
	broken := []byte("solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 zero 0\n")
	_, err := ParseBytes(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
}

func TestParseBinaryWithSolidHeader(t *testing.T) {
	data := binarySTL(t, "solid but actually binary", []binaryFacet{
		{Normal: [3]float32{0, 0, 1}, V1: [3]float32{0, 0, 0}, V2: [3]float32{2, 0, 0}, V3: [3]float32{0, 2, 0}},
		{Normal: [3]float32{0, 0, -1}, V1: [3]float32{0, 0, 0}, V2: [3]float32{0, 2, 0}, V3: [3]float32{2, 0, 0}},
	})

	model, err := ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "solid but actually binary", model.Name)
	require.Equal(t, 2, model.TriangleCount())
	assert.Equal(t, geometry.NewVector3(2, 0, 0), model.Triangles[0].V2)
	assert.Equal(t, geometry.NewVector3(0, 0, -1), model.Triangles[1].Normal)
}

func TestParseBinaryTruncated(t *testing.T) {
	data := binarySTL(t, "", []binaryFacet{{}})
	_, err := ParseBytes(data[:len(data)-10])
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	require.NoError(t, os.WriteFile(path, []byte(asciiTriangle), 0o644))

	model, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 1, model.TriangleCount())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}
