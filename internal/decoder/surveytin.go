package decoder

import (
	"encoding/binary"
	"math"
)

// Survey TIN interchange layout, little endian throughout:
//
//	magic         [4]byte  "TIN1"
//	version       uint16   currently 1
//	flags         uint16   reserved, must be zero
//	vertexCount   uint32
//	triangleCount uint32
//	vertices      vertexCount * 3 * float64
//	indices       triangleCount * 3 * uint32
//
// Field order and sizes are fixed by the producing survey instruments and
// must be reproduced exactly.
const (
	surveyTINHeaderSize = 16
	surveyTINVersion    = 1
)

var surveyTINMagic = [4]byte{'T', 'I', 'N', '1'}

var byteOrder = binary.LittleEndian

// ParseSurveyTIN extracts the raw double precision vertices and triangle
// connectivity from a survey TIN buffer. Every section is validated against
// the remaining buffer length before it is read: a corrupt header can make
// the parse fail, never read out of bounds.
func ParseSurveyTIN(buf []byte) ([]float64, []uint32, error) {
	if len(buf) < surveyTINHeaderSize {
		return nil, nil, truncatedf("buffer of %d bytes is smaller than the %d byte header", len(buf), surveyTINHeaderSize)
	}
	if buf[0] != surveyTINMagic[0] || buf[1] != surveyTINMagic[1] ||
		buf[2] != surveyTINMagic[2] || buf[3] != surveyTINMagic[3] {
		return nil, nil, malformedf("bad magic %q, want %q", buf[:4], surveyTINMagic[:])
	}
	version := byteOrder.Uint16(buf[4:6])
	if version != surveyTINVersion {
		return nil, nil, unsupportedf("survey TIN version %d, only version %d is supported", version, surveyTINVersion)
	}
	if flags := byteOrder.Uint16(buf[6:8]); flags != 0 {
		return nil, nil, malformedf("reserved flags field is %#x, want zero", flags)
	}

	vertexCount := byteOrder.Uint32(buf[8:12])
	triangleCount := byteOrder.Uint32(buf[12:16])

	vertexBytes := uint64(vertexCount) * 3 * 8
	indexBytes := uint64(triangleCount) * 3 * 4
	declared := uint64(surveyTINHeaderSize) + vertexBytes + indexBytes
	if declared > uint64(len(buf)) {
		return nil, nil, truncatedf("header declares %d bytes but buffer holds %d", declared, len(buf))
	}
	if declared < uint64(len(buf)) {
		return nil, nil, malformedf("buffer holds %d trailing bytes past the declared payload", uint64(len(buf))-declared)
	}

	verts := make([]float64, int(vertexCount)*3)
	off := surveyTINHeaderSize
	for i := range verts {
		verts[i] = math.Float64frombits(byteOrder.Uint64(buf[off : off+8]))
		off += 8
	}

	indices := make([]uint32, int(triangleCount)*3)
	for i := range indices {
		indices[i] = byteOrder.Uint32(buf[off : off+4])
		off += 4
	}

	for i, idx := range indices {
		if idx >= vertexCount {
			return nil, nil, malformedf("triangle %d references vertex %d of %d", i/3, idx, vertexCount)
		}
	}

	return verts, indices, nil
}

// EncodeSurveyTIN writes vertices and connectivity in the survey TIN layout.
// Used to build fixtures and to convert foreign inputs into the interchange
// format.
func EncodeSurveyTIN(verts []float64, indices []uint32) []byte {
	vertexCount := len(verts) / 3
	triangleCount := len(indices) / 3

	buf := make([]byte, surveyTINHeaderSize+vertexCount*3*8+triangleCount*3*4)
	copy(buf[0:4], surveyTINMagic[:])
	byteOrder.PutUint16(buf[4:6], surveyTINVersion)
	byteOrder.PutUint16(buf[6:8], 0)
	byteOrder.PutUint32(buf[8:12], uint32(vertexCount))
	byteOrder.PutUint32(buf[12:16], uint32(triangleCount))

	off := surveyTINHeaderSize
	for i := 0; i < vertexCount*3; i++ {
		byteOrder.PutUint64(buf[off:off+8], math.Float64bits(verts[i]))
		off += 8
	}
	for i := 0; i < triangleCount*3; i++ {
		byteOrder.PutUint32(buf[off:off+4], indices[i])
		off += 4
	}
	return buf
}
