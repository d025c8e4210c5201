package decoder

import (
	"math"

	"github.com/terravue/surveytiler/internal/mesh"
)

// Mesh snapshot layout, the persistence boundary used by the store.
// Internal format, little endian, versioned so a future change is rejected
// instead of silently misread:
//
//	magic      [4]byte  "SMSH"
//	version    uint16   currently 1
//	reserved   uint16
//	translate  3 * float64
//	pointCount uint32   number of float32 values in the points section
//	indexCount uint32
//	points     pointCount * float32
//	indices    indexCount * uint32
const (
	snapshotHeaderSize = 40
	snapshotVersion    = 1
)

var snapshotMagic = [4]byte{'S', 'M', 'S', 'H'}

// MeshToBytes serializes a mesh. MeshFromBytes(MeshToBytes(m)) reproduces m
// bit for bit.
func MeshToBytes(m *mesh.Mesh) []byte {
	buf := make([]byte, snapshotHeaderSize+len(m.Points)*4+len(m.Indices)*4)
	copy(buf[0:4], snapshotMagic[:])
	byteOrder.PutUint16(buf[4:6], snapshotVersion)
	byteOrder.PutUint16(buf[6:8], 0)
	off := 8
	for _, t := range m.Translate {
		byteOrder.PutUint64(buf[off:off+8], math.Float64bits(t))
		off += 8
	}
	byteOrder.PutUint32(buf[off:off+4], uint32(len(m.Points)))
	byteOrder.PutUint32(buf[off+4:off+8], uint32(len(m.Indices)))
	off += 8
	for _, p := range m.Points {
		byteOrder.PutUint32(buf[off:off+4], math.Float32bits(p))
		off += 4
	}
	for _, idx := range m.Indices {
		byteOrder.PutUint32(buf[off:off+4], idx)
		off += 4
	}
	return buf
}

// MeshFromBytes deserializes a mesh snapshot, validating the layout the same
// way the survey decoders do.
func MeshFromBytes(buf []byte) (*mesh.Mesh, error) {
	if len(buf) < snapshotHeaderSize {
		return nil, truncatedf("snapshot of %d bytes is smaller than the %d byte header", len(buf), snapshotHeaderSize)
	}
	if buf[0] != snapshotMagic[0] || buf[1] != snapshotMagic[1] ||
		buf[2] != snapshotMagic[2] || buf[3] != snapshotMagic[3] {
		return nil, malformedf("bad snapshot magic %q", buf[:4])
	}
	if version := byteOrder.Uint16(buf[4:6]); version != snapshotVersion {
		return nil, unsupportedf("snapshot version %d, only version %d is supported", version, snapshotVersion)
	}

	var translate [3]float64
	off := 8
	for i := range translate {
		translate[i] = math.Float64frombits(byteOrder.Uint64(buf[off : off+8]))
		off += 8
	}
	pointCount := byteOrder.Uint32(buf[off : off+4])
	indexCount := byteOrder.Uint32(buf[off+4 : off+8])
	off += 8

	if pointCount%3 != 0 {
		return nil, malformedf("point value count %d is not divisible by 3", pointCount)
	}
	if indexCount%3 != 0 {
		return nil, malformedf("index count %d is not divisible by 3", indexCount)
	}
	declared := uint64(snapshotHeaderSize) + uint64(pointCount)*4 + uint64(indexCount)*4
	if declared > uint64(len(buf)) {
		return nil, truncatedf("snapshot declares %d bytes but buffer holds %d", declared, len(buf))
	}
	if declared < uint64(len(buf)) {
		return nil, malformedf("snapshot holds %d trailing bytes past the declared payload", uint64(len(buf))-declared)
	}

	points := make([]float32, pointCount)
	for i := range points {
		points[i] = math.Float32frombits(byteOrder.Uint32(buf[off : off+4]))
		off += 4
	}
	indices := make([]uint32, indexCount)
	for i := range indices {
		indices[i] = byteOrder.Uint32(buf[off : off+4])
		off += 4
	}
	numPoints := pointCount / 3
	for i, idx := range indices {
		if idx >= numPoints {
			return nil, malformedf("triangle %d references vertex %d of %d", i/3, idx, numPoints)
		}
	}

	return mesh.New(points, indices, translate), nil
}
