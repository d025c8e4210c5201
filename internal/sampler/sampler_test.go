package sampler

import (
	"math"
	"testing"

	"github.com/terravue/surveytiler/internal/decoder"
	"github.com/terravue/surveytiler/internal/geometry"
	"github.com/terravue/surveytiler/internal/tilehash"
)

// unitSquareHash builds the canonical fixture: a unit square of two
// triangles with heights 0 along the y=0 edge and 1 along the y=1 edge,
// tiled as a single cell.
func unitSquareHash(t *testing.T) *tilehash.TileHash {
	t.Helper()
	verts := []float64{
		0, 0, 0,
		1, 0, 0,
		0, 1, 1,
		1, 1, 1,
	}
	indices := []uint32{0, 1, 2, 1, 3, 2}
	m, err := decoder.Decode(decoder.FormatSurveyTIN, decoder.EncodeSurveyTIN(verts, indices))
	if err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return tilehash.Build(m, m.ComputeExtents(), 1)
}

// TestSampleUnitSquare checks the full decode/tile/sample chain on the unit
// square: a 2x2 grid must yield heights 0,0,1,1 in raster order with every
// cell covered.
func TestSampleUnitSquare(t *testing.T) {
	hash := unitSquareHash(t)

	grid := Sample(hash, hash.TileIndex(0, 0), 2)
	if grid == nil {
		t.Fatal("expected a grid, got absence")
	}

	want := []float32{0, 0, 1, 1}
	for i, w := range want {
		if !grid.Valid[i] {
			t.Fatalf("cell %d marked no-data", i)
		}
		if grid.Heights[i] != w {
			t.Errorf("cell %d: got %v, want %v", i, grid.Heights[i], w)
		}
	}
}

// TestSampleAbsence verifies missing or empty tiles yield absence, not an
// error and not an empty grid.
func TestSampleAbsence(t *testing.T) {
	hash := unitSquareHash(t)

	if grid := Sample(hash, 999, 4); grid != nil {
		t.Error("absent tile index: got a grid, want nil")
	}
	if grid := Sample(hash, hash.TileIndex(0, 0), 0); grid != nil {
		t.Error("zero resolution: got a grid, want nil")
	}
}

// TestSampleDeterminism verifies repeated sampling is bit identical.
func TestSampleDeterminism(t *testing.T) {
	hash := unitSquareHash(t)
	index := hash.TileIndex(0, 0)

	first := Sample(hash, index, 33)
	if first == nil {
		t.Fatal("expected a grid")
	}
	for run := 0; run < 5; run++ {
		again := Sample(hash, index, 33)
		for i := range first.Heights {
			if math.Float32bits(again.Heights[i]) != math.Float32bits(first.Heights[i]) {
				t.Fatalf("run %d cell %d: %v != %v", run, i, again.Heights[i], first.Heights[i])
			}
			if again.Valid[i] != first.Valid[i] {
				t.Fatalf("run %d cell %d: validity diverged", run, i)
			}
		}
	}
}

// TestSampleNoData verifies cells outside every triangle carry the validity
// mask cleared while covered cells still sample.
func TestSampleNoData(t *testing.T) {
	// a single triangle covering only the lower-left half of the tile,
	// leaving the far corner uncovered
	verts := []float64{
		0, 0, 2,
		1, 0, 2,
		0, 1, 2,
	}
	indices := []uint32{0, 1, 2}
	m, err := decoder.Decode(decoder.FormatSurveyTIN, decoder.EncodeSurveyTIN(verts, indices))
	if err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	hash := tilehash.Build(m, m.ComputeExtents(), 1)

	grid := Sample(hash, hash.TileIndex(0, 0), 2)
	if grid == nil {
		t.Fatal("expected a grid, got absence")
	}

	// raster order: (0,0) (1,0) (0,1) (1,1); only (1,1) is uncovered
	wantValid := []bool{true, true, true, false}
	for i, w := range wantValid {
		if grid.Valid[i] != w {
			t.Errorf("cell %d: valid=%v, want %v", i, grid.Valid[i], w)
		}
	}
	if grid.ValidCount() != 3 {
		t.Errorf("ValidCount: got %d, want 3", grid.ValidCount())
	}
}

// TestSampleAllOutside verifies a tile whose triangles never contain a
// lattice point reports absence rather than an all-invalid grid.
func TestSampleAllOutside(t *testing.T) {
	// sliver triangle in the middle of the cell, missing all four corner
	// samples of a 2x2 lattice
	verts := []float64{
		0.4, 0.4, 1,
		0.6, 0.4, 1,
		0.5, 0.6, 1,
	}
	indices := []uint32{0, 1, 2}
	m, err := decoder.Decode(decoder.FormatSurveyTIN, decoder.EncodeSurveyTIN(verts, indices))
	if err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	ext := geometry.NewExtents3FromValues(0, 0, 0, 1, 1, 2)
	hash := tilehash.Build(m, ext, 1)

	if grid := Sample(hash, hash.TileIndex(0, 0), 2); grid != nil {
		t.Fatal("expected absence when no lattice point is covered")
	}
}

// TestSampleSharedEdgeAgreement verifies that a triangle duplicated across
// two adjacent tiles produces agreeing heights along the shared boundary.
func TestSampleSharedEdgeAgreement(t *testing.T) {
	// a 2x1 surface, heights rising along X, split into two triangles that
	// both cross the tile boundary at x=1
	verts := []float64{
		0, 0, 0,
		2, 0, 2,
		0, 1, 0,
		2, 1, 2,
	}
	indices := []uint32{0, 1, 2, 1, 3, 2}
	m, err := decoder.Decode(decoder.FormatSurveyTIN, decoder.EncodeSurveyTIN(verts, indices))
	if err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	hash := tilehash.Build(m, m.ComputeExtents(), 1)
	if hash.Columns != 2 {
		t.Fatalf("columns: got %d, want 2", hash.Columns)
	}

	left := Sample(hash, hash.TileIndex(0, 0), 3)
	right := Sample(hash, hash.TileIndex(0, 1), 3)
	if left == nil || right == nil {
		t.Fatal("expected grids on both sides of the boundary")
	}

	// the right edge column of the left tile and the left edge column of
	// the right tile sample the same world positions
	for row := 0; row < 3; row++ {
		l := left.Heights[row*3+2]
		r := right.Heights[row*3]
		if !left.Valid[row*3+2] || !right.Valid[row*3] {
			t.Fatalf("row %d: boundary sample missing on one side", row)
		}
		if math.Abs(float64(l)-float64(r)) > 1e-6 {
			t.Errorf("row %d: boundary heights disagree: %v vs %v", row, l, r)
		}
	}
}

// TestGridRoundTrip verifies the height grid codec used by the store.
func TestGridRoundTrip(t *testing.T) {
	hash := unitSquareHash(t)
	grid := Sample(hash, hash.TileIndex(0, 0), 5)
	if grid == nil {
		t.Fatal("expected a grid")
	}

	got, err := GridFromBytes(grid.ToBytes())
	if err != nil {
		t.Fatalf("GridFromBytes failed: %v", err)
	}
	if got.Rows != grid.Rows || got.Cols != grid.Cols {
		t.Fatalf("dimensions: got %dx%d, want %dx%d", got.Rows, got.Cols, grid.Rows, grid.Cols)
	}
	for i := range grid.Heights {
		if math.Float32bits(got.Heights[i]) != math.Float32bits(grid.Heights[i]) {
			t.Errorf("cell %d height: got %v, want %v", i, got.Heights[i], grid.Heights[i])
		}
		if got.Valid[i] != grid.Valid[i] {
			t.Errorf("cell %d validity: got %v, want %v", i, got.Valid[i], grid.Valid[i])
		}
	}
}

// TestGridCodecRejectsCorruption spot checks the codec validations.
func TestGridCodecRejectsCorruption(t *testing.T) {
	hash := unitSquareHash(t)
	buf := Sample(hash, hash.TileIndex(0, 0), 3).ToBytes()

	if _, err := GridFromBytes(buf[:8]); err == nil {
		t.Error("truncated grid accepted")
	}

	bad := append([]byte(nil), buf...)
	bad[0] = 'X'
	if _, err := GridFromBytes(bad); err == nil {
		t.Error("bad magic accepted")
	}

	future := append([]byte(nil), buf...)
	future[4] = 9
	if _, err := GridFromBytes(future); err == nil {
		t.Error("future version accepted")
	}
}
