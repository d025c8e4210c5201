package decoder

import (
	"path/filepath"
	"strings"

	"github.com/terravue/surveytiler/internal/mesh"
)

// Format discriminates the binary layouts the decoder understands. New
// survey formats are added as new parser entries, not by reworking existing
// ones.
type Format string

const (
	// The proprietary triangulated survey interchange layout
	FormatSurveyTIN Format = "survey-tin"
	// The internal versioned mesh snapshot layout used by the store
	FormatSnapshot Format = "snapshot"
)

var parsers = map[Format]func(buf []byte) (*mesh.Mesh, error){
	FormatSurveyTIN: decodeSurveyTIN,
	FormatSnapshot:  MeshFromBytes,
}

func decodeSurveyTIN(buf []byte) (*mesh.Mesh, error) {
	verts, indices, err := ParseSurveyTIN(buf)
	if err != nil {
		return nil, err
	}
	return BuildMesh(verts, indices), nil
}

// Decode parses a raw byte buffer into a normalized Mesh. The caller is
// expected to have enforced size ceilings already; the decoder still bounds
// checks every field against the buffer it was handed. Any internal fault is
// recovered and reported as a malformed-input error, never as a panic that
// could take down a shared worker.
func Decode(format Format, buf []byte) (m *mesh.Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = malformedf("internal fault while decoding %s: %v", format, r)
		}
	}()

	parse, ok := parsers[format]
	if !ok {
		return nil, unsupportedf("unknown format discriminator %q", format)
	}
	return parse(buf)
}

// FormatForPath maps an input file extension to its decoder variant
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tin":
		return FormatSurveyTIN, true
	case ".mesh":
		return FormatSnapshot, true
	}
	return "", false
}

// BuildMesh normalizes raw double precision vertices into a Mesh: the minimum
// corner of the vertex bounding box becomes the translation, the subtraction
// happens in double precision and only the result is narrowed to single
// precision. Connectivity is carried over untouched.
func BuildMesh(verts []float64, indices []uint32) *mesh.Mesh {
	var minX, minY, minZ float64
	if len(verts) >= 3 {
		minX, minY, minZ = verts[0], verts[1], verts[2]
	}
	for i := 3; i+2 < len(verts); i += 3 {
		if verts[i] < minX {
			minX = verts[i]
		}
		if verts[i+1] < minY {
			minY = verts[i+1]
		}
		if verts[i+2] < minZ {
			minZ = verts[i+2]
		}
	}

	points := make([]float32, len(verts))
	for i := 0; i+2 < len(verts); i += 3 {
		points[i] = float32(verts[i] - minX)
		points[i+1] = float32(verts[i+1] - minY)
		points[i+2] = float32(verts[i+2] - minZ)
	}

	flat := make([]uint32, len(indices))
	copy(flat, indices)

	return mesh.New(points, flat, [3]float64{minX, minY, minZ})
}
