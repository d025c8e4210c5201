package decoder

import (
	"errors"
	"math"
	"testing"

	"github.com/terravue/surveytiler/internal/mesh"
)

// a 2x1 rectangle split in two triangles, heights rising along Y
func rectangleVerts() ([]float64, []uint32) {
	verts := []float64{
		1000, 2000, 50,
		1002, 2000, 50,
		1000, 2001, 51,
		1002, 2001, 51,
	}
	indices := []uint32{0, 1, 2, 1, 3, 2}
	return verts, indices
}

// TestSurveyTINRoundTrip verifies encode followed by parse reproduces the payload.
func TestSurveyTINRoundTrip(t *testing.T) {
	verts, indices := rectangleVerts()
	buf := EncodeSurveyTIN(verts, indices)

	gotVerts, gotIndices, err := ParseSurveyTIN(buf)
	if err != nil {
		t.Fatalf("ParseSurveyTIN failed: %v", err)
	}
	if len(gotVerts) != len(verts) || len(gotIndices) != len(indices) {
		t.Fatalf("got %d verts / %d indices, want %d / %d", len(gotVerts), len(gotIndices), len(verts), len(indices))
	}
	for i, v := range verts {
		if gotVerts[i] != v {
			t.Errorf("vertex value %d: got %v, want %v", i, gotVerts[i], v)
		}
	}
	for i, idx := range indices {
		if gotIndices[i] != idx {
			t.Errorf("index %d: got %d, want %d", i, gotIndices[i], idx)
		}
	}
}

// TestSurveyTINTruncated verifies that a header declaring more data than the
// buffer holds is rejected as truncated, never parsed partially.
func TestSurveyTINTruncated(t *testing.T) {
	verts, indices := rectangleVerts()
	buf := EncodeSurveyTIN(verts, indices)

	for _, cut := range []int{len(buf) - 1, len(buf) / 2, surveyTINHeaderSize, 10, 0} {
		_, _, err := ParseSurveyTIN(buf[:cut])
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("cut at %d: got %v, want truncated error", cut, err)
		}
	}
}

// TestSurveyTINMalformed exercises the structural validations.
func TestSurveyTINMalformed(t *testing.T) {
	verts, indices := rectangleVerts()

	tests := []struct {
		name   string
		mutate func(buf []byte) []byte
		want   *Error
	}{
		{
			name:   "bad magic",
			mutate: func(buf []byte) []byte { buf[0] = 'X'; return buf },
			want:   ErrMalformed,
		},
		{
			name:   "unknown version",
			mutate: func(buf []byte) []byte { buf[4] = 9; return buf },
			want:   ErrUnsupportedVariant,
		},
		{
			name:   "nonzero flags",
			mutate: func(buf []byte) []byte { buf[6] = 1; return buf },
			want:   ErrMalformed,
		},
		{
			name:   "trailing garbage",
			mutate: func(buf []byte) []byte { return append(buf, 0xff) },
			want:   ErrMalformed,
		},
		{
			name: "index out of range",
			mutate: func(buf []byte) []byte {
				bad := []uint32{0, 1, 2, 1, 99, 2}
				return EncodeSurveyTIN(verts, bad)
			},
			want: ErrMalformed,
		},
	}

	for _, tt := range tests {
		buf := tt.mutate(EncodeSurveyTIN(verts, indices))
		_, _, err := ParseSurveyTIN(buf)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want kind %v", tt.name, err, tt.want.Kind)
		}
	}
}

// TestDecodeNormalization verifies the mesh is translated to its bounding
// box origin and that re-adding the translation recovers the original
// coordinates within single precision rounding error.
func TestDecodeNormalization(t *testing.T) {
	verts, indices := rectangleVerts()
	m, err := Decode(FormatSurveyTIN, EncodeSurveyTIN(verts, indices))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := [3]float64{1000, 2000, 50}
	if m.Translate != want {
		t.Fatalf("translate: got %v, want %v", m.Translate, want)
	}

	for i := 0; i < m.PointCount(); i++ {
		coord := m.GlobalVertex(i)
		for axis, got := range []float64{coord.X, coord.Y, coord.Z} {
			orig := verts[i*3+axis]
			// single precision rounding error scaled by the local offset
			tolerance := math.Max(math.Abs(orig-m.Translate[axis]), 1) * 1e-6
			if math.Abs(got-orig) > tolerance {
				t.Errorf("point %d axis %d: got %v, want %v", i, axis, got, orig)
			}
		}
	}
}

// TestDecodeDeterminism verifies that decoding the same bytes twice yields
// identical meshes.
func TestDecodeDeterminism(t *testing.T) {
	verts, indices := rectangleVerts()
	buf := EncodeSurveyTIN(verts, indices)

	m1, err := Decode(FormatSurveyTIN, buf)
	if err != nil {
		t.Fatalf("first decode failed: %v", err)
	}
	m2, err := Decode(FormatSurveyTIN, buf)
	if err != nil {
		t.Fatalf("second decode failed: %v", err)
	}
	if !m1.Equal(m2) {
		t.Fatal("two decodes of the same buffer differ")
	}
}

// TestDecodeUnknownFormat verifies the discriminator is validated.
func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode(Format("laser-scan"), []byte{1, 2, 3})
	if !errors.Is(err, ErrUnsupportedVariant) {
		t.Fatalf("got %v, want unsupported variant", err)
	}
}

// TestDecodeRecoversParserPanic verifies an internal fault inside a parser
// surfaces as a malformed-input error, never as a panic crossing Decode.
func TestDecodeRecoversParserPanic(t *testing.T) {
	const faulty = Format("faulty")
	parsers[faulty] = func(buf []byte) (*mesh.Mesh, error) {
		var m *mesh.Mesh
		_ = m.PointCount()
		return m, nil
	}
	defer delete(parsers, faulty)

	m, err := Decode(faulty, []byte{1, 2, 3})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want malformed", err)
	}
	if m != nil {
		t.Fatal("expected no mesh alongside the error")
	}
}

// TestFormatForPath checks the extension mapping.
func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path   string
		want   Format
		wantOk bool
	}{
		{"survey/site-a.tin", FormatSurveyTIN, true},
		{"SITE-B.TIN", FormatSurveyTIN, true},
		{"stored.mesh", FormatSnapshot, true},
		{"points.las", "", false},
	}
	for _, tt := range tests {
		got, ok := FormatForPath(tt.path)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("FormatForPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.wantOk)
		}
	}
}
