package tri

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/mobile/exp/f32"
)

// ErrIndexRange is returned when an index refers past the end of the vertex
// data.
var ErrIndexRange = errors.New("tri: index out of range")

const (
	coordsPerVertex = 3
	bytesPerIndex   = 2
)

// Geometry is indexed triangle data. Vertices are positions in normalized
// device coordinates and every three indices form one triangle.
type Geometry struct {
	Vertices []f32.Vec3
	Indices  []uint16
}

// DefaultGeometry returns the triangle drawn by Draw. It covers the lower left
// half of the square spanning [-0.5, 0.5] in x and y.
func DefaultGeometry() *Geometry {
	return &Geometry{
		Vertices: []f32.Vec3{
			{-0.5, 0.5, 0.0},  // top left
			{-0.5, -0.5, 0.0}, // bottom left
			{0.5, -0.5, 0.0},  // bottom right
		},
		Indices: []uint16{0, 1, 2},
	}
}

// Validate returns an error if g cannot be drawn as a list of triangles.
func (g *Geometry) Validate() error {
	if len(g.Vertices) == 0 {
		return fmt.Errorf("tri: no vertices")
	}
	if len(g.Indices) == 0 || len(g.Indices)%3 != 0 {
		return fmt.Errorf("tri: index count %d is not a positive multiple of three", len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= len(g.Vertices) {
			return fmt.Errorf("%w: index %d references vertex %d of %d", ErrIndexRange, i, idx, len(g.Vertices))
		}
	}
	return nil
}

// VertexBytes serializes the vertex positions for upload into an
// ARRAY_BUFFER.
func (g *Geometry) VertexBytes() []byte {
	flat := make([]float32, 0, len(g.Vertices)*coordsPerVertex)
	for _, v := range g.Vertices {
		flat = append(flat, v[0], v[1], v[2])
	}
	return f32.Bytes(binary.LittleEndian, flat...)
}

// IndexBytes serializes the indices for upload into an ELEMENT_ARRAY_BUFFER
// and drawing as UNSIGNED_SHORT.
func (g *Geometry) IndexBytes() []byte {
	b := make([]byte, len(g.Indices)*bytesPerIndex)
	for i, idx := range g.Indices {
		binary.LittleEndian.PutUint16(b[i*bytesPerIndex:], idx)
	}
	return b
}
