package mesh

import (
	"github.com/terravue/surveytiler/internal/geometry"
)

// Mesh is the normalized triangulated surface produced by decoding a survey
// file. Points holds flat x,y,z triplets in single precision, expressed
// relative to Translate: the decoder subtracts the bounding box origin from
// every vertex in double precision before narrowing, so that coordinates far
// from the global origin keep their sub-meter detail. Indices holds flat
// triangle triplets referencing Points.
//
// A Mesh is immutable once built and can be shared read-only across
// concurrent tiling and sampling operations.
type Mesh struct {
	Points    []float32
	Indices   []uint32
	Translate [3]float64
}

func New(points []float32, indices []uint32, translate [3]float64) *Mesh {
	return &Mesh{
		Points:    points,
		Indices:   indices,
		Translate: translate,
	}
}

func (m *Mesh) PointCount() int {
	return len(m.Points) / 3
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex returns the i-th point in local (translated) coordinates
func (m *Mesh) Vertex(i int) (x, y, z float32) {
	return m.Points[i*3], m.Points[i*3+1], m.Points[i*3+2]
}

// Triangle returns the three point indices of the i-th triangle
func (m *Mesh) Triangle(i int) (a, b, c uint32) {
	return m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]
}

// GlobalVertex widens the i-th point and re-adds the translation, recovering
// the original survey coordinate within single precision rounding error.
func (m *Mesh) GlobalVertex(i int) geometry.Coordinate {
	x, y, z := m.Vertex(i)
	return geometry.Coordinate{
		X: float64(x) + m.Translate[0],
		Y: float64(y) + m.Translate[1],
		Z: float64(z) + m.Translate[2],
	}
}

// ComputeExtents derives the bounding volume of the mesh in its local
// coordinate space.
func (m *Mesh) ComputeExtents() geometry.Extents3 {
	ext := geometry.NewExtents3()
	for i := 0; i < m.PointCount(); i++ {
		x, y, z := m.Vertex(i)
		ext.ExpandPoint(float64(x), float64(y), float64(z))
	}
	return ext
}

// Equal reports whether two meshes carry bit-identical payloads
func (m *Mesh) Equal(other *Mesh) bool {
	if m.Translate != other.Translate ||
		len(m.Points) != len(other.Points) ||
		len(m.Indices) != len(other.Indices) {
		return false
	}
	for i, p := range m.Points {
		if p != other.Points[i] {
			return false
		}
	}
	for i, idx := range m.Indices {
		if idx != other.Indices[i] {
			return false
		}
	}
	return true
}
