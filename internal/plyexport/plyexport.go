// Package plyexport writes a decoded mesh to PLY so it can be inspected in
// standard geometry viewers. Coordinates are exported in global (translated
// back) double precision.
package plyexport

import (
	"unsafe"

	"github.com/cobaltgray/go-plyfile"

	"github.com/terravue/surveytiler/internal/mesh"
)

type plyVertex struct {
	X float64
	Y float64
	Z float64
}

// The face layout the C ply writer expects: a vertex count byte and a raw
// pointer to the index data.
type plyFace struct {
	NVerts byte
	Verts  uintptr
}

var vertexProperties = []plyfile.PlyProperty{
	{"x", plyfile.PLY_DOUBLE, plyfile.PLY_DOUBLE, int(unsafe.Offsetof(plyVertex{}.X)), 0, 0, 0, 0},
	{"y", plyfile.PLY_DOUBLE, plyfile.PLY_DOUBLE, int(unsafe.Offsetof(plyVertex{}.Y)), 0, 0, 0, 0},
	{"z", plyfile.PLY_DOUBLE, plyfile.PLY_DOUBLE, int(unsafe.Offsetof(plyVertex{}.Z)), 0, 0, 0, 0},
}

var faceProperties = []plyfile.PlyProperty{
	{"vertex_indices", plyfile.PLY_INT, plyfile.PLY_INT, int(unsafe.Offsetof(plyFace{}.Verts)),
		1, plyfile.PLY_UCHAR, plyfile.PLY_UCHAR, int(unsafe.Offsetof(plyFace{}.NVerts))},
}

// Export writes the mesh to the given path as ASCII PLY
func Export(path string, m *mesh.Mesh) {
	version := float32(1.0)
	elemNames := []string{"vertex", "face"}

	cply := plyfile.PlyOpenForWriting(path, len(elemNames), elemNames, plyfile.PLY_ASCII, &version)

	plyfile.PlyElementCount(cply, "vertex", m.PointCount())
	for _, prop := range vertexProperties {
		plyfile.PlyDescribeProperty(cply, "vertex", prop)
	}

	plyfile.PlyElementCount(cply, "face", m.TriangleCount())
	for _, prop := range faceProperties {
		plyfile.PlyDescribeProperty(cply, "face", prop)
	}

	plyfile.PlyHeaderComplete(cply)

	plyfile.PlyPutElementSetup(cply, "vertex")
	for i := 0; i < m.PointCount(); i++ {
		coord := m.GlobalVertex(i)
		plyfile.PlyPutElement(cply, plyVertex{X: coord.X, Y: coord.Y, Z: coord.Z})
	}

	plyfile.PlyPutElementSetup(cply, "face")
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		indices := []int32{int32(a), int32(b), int32(c)}
		plyfile.PlyPutElement(cply, plyFace{
			NVerts: 3,
			Verts:  uintptr(unsafe.Pointer(&indices[0])),
		})
	}

	plyfile.PlyClose(cply)
}
