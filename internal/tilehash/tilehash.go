package tilehash

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/terravue/surveytiler/internal/geometry"
	"github.com/terravue/surveytiler/internal/mesh"
)

// Triangle carries one mesh triangle together with the data the sampler
// needs for every hit test: the projected 2D footprint and the widened
// vertex coordinates.
type Triangle struct {
	A, B, C uint32

	// projected footprint, vertical axis ignored
	MinX, MinY float64
	MaxX, MaxY float64

	X [3]float64
	Y [3]float64
	Z [3]float64
}

// TileHash partitions the triangles of a mesh over a regular 2D grid of
// square cells of side TileSize covering Extents. Tiles maps a tile index to
// the triangles overlapping that cell, by position in Tris. A triangle
// spanning several cells appears in each of them: assignment is
// non-exclusive so that samplers on adjacent tiles agree along the shared
// boundary. Immutable once built.
type TileHash struct {
	Tris     []Triangle
	Tiles    map[uint32][]uint32
	Extents  geometry.Extents3
	TileSize float64
	Columns  int
	Rows     int
}

// Build hashes every mesh triangle into the tile grid derived from the given
// extents and tile size. Degenerate or empty extents yield a zero tile hash,
// not an error. The result is fully deterministic: per-tile triangle lists
// follow the mesh triangle order.
func Build(m *mesh.Mesh, ext geometry.Extents3, tileSize float64) *TileHash {
	hash := &TileHash{
		Tiles:    make(map[uint32][]uint32),
		Extents:  ext,
		TileSize: tileSize,
	}
	if tileSize <= 0 || ext.IsDegenerate2D() {
		return hash
	}

	hash.Columns = gridDimension(ext.Width(), tileSize)
	hash.Rows = gridDimension(ext.Depth(), tileSize)
	if hash.Columns == 0 || hash.Rows == 0 {
		return hash
	}

	hash.Tris = make([]Triangle, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		hash.Tris = append(hash.Tris, makeTriangle(m, i))
	}

	for i := range hash.Tris {
		tri := &hash.Tris[i]

		// a footprint strictly outside the extents is dropped silently;
		// touching the extents boundary counts as inside
		if tri.MaxX < ext.MinX || tri.MinX > ext.MaxX ||
			tri.MaxY < ext.MinY || tri.MinY > ext.MaxY {
			continue
		}

		c0, c1 := cellRange(tri.MinX-ext.MinX, tri.MaxX-ext.MinX, tileSize, hash.Columns)
		r0, r1 := cellRange(tri.MinY-ext.MinY, tri.MaxY-ext.MinY, tileSize, hash.Rows)

		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				index := hash.TileIndex(row, col)
				hash.Tiles[index] = append(hash.Tiles[index], uint32(i))
			}
		}
	}

	return hash
}

func makeTriangle(m *mesh.Mesh, i int) Triangle {
	a, b, c := m.Triangle(i)
	tri := Triangle{A: a, B: b, C: c}
	for k, idx := range [3]uint32{a, b, c} {
		x, y, z := m.Vertex(int(idx))
		tri.X[k] = float64(x)
		tri.Y[k] = float64(y)
		tri.Z[k] = float64(z)
	}
	tri.MinX = math.Min(tri.X[0], math.Min(tri.X[1], tri.X[2]))
	tri.MaxX = math.Max(tri.X[0], math.Max(tri.X[1], tri.X[2]))
	tri.MinY = math.Min(tri.Y[0], math.Min(tri.Y[1], tri.Y[2]))
	tri.MaxY = math.Max(tri.Y[0], math.Max(tri.Y[1], tri.Y[2]))
	return tri
}

// cellRange maps a 1D footprint interval, already shifted into extent-local
// coordinates, to the inclusive range of overlapping cells. Cell intervals
// are closed on both sides: a footprint that only touches a cell edge still
// overlaps that cell.
func cellRange(lo, hi, tileSize float64, cells int) (int, int) {
	first := int(math.Floor(lo / tileSize))
	// lo sitting exactly on a cell edge also touches the cell below it
	if first > 0 && lo == float64(first)*tileSize {
		first--
	}
	last := int(math.Floor(hi / tileSize))

	if first < 0 {
		first = 0
	}
	if last > cells-1 {
		last = cells - 1
	}
	return first, last
}

// gridDimension computes ceil(span/tileSize) through decimal arithmetic so
// that a span which is an exact multiple of the tile size does not pick up a
// phantom trailing cell from binary float division. Partial trailing cells
// still round outward so the extents are fully covered.
func gridDimension(span, tileSize float64) int {
	if span <= 0 || tileSize <= 0 {
		return 0
	}
	n := decimal.NewFromFloat(span).Div(decimal.NewFromFloat(tileSize)).Ceil().IntPart()
	if n < 1 {
		n = 1
	}
	return int(n)
}

// TileIndex packs a (row, column) grid coordinate row-major into a single
// stable index. The packing is invertible via TileCoords so callers can
// derive tile adjacency from indices alone.
func (h *TileHash) TileIndex(row, col int) uint32 {
	return uint32(row*h.Columns + col)
}

// TileCoords is the inverse of TileIndex
func (h *TileHash) TileCoords(index uint32) (row, col int) {
	return int(index) / h.Columns, int(index) % h.Columns
}

// TileBounds returns the projected 2D bounds of the given tile cell
func (h *TileHash) TileBounds(index uint32) (minX, minY, maxX, maxY float64) {
	row, col := h.TileCoords(index)
	minX = h.Extents.MinX + float64(col)*h.TileSize
	minY = h.Extents.MinY + float64(row)*h.TileSize
	return minX, minY, minX + h.TileSize, minY + h.TileSize
}

// TileCount returns the number of tiles holding at least one triangle
func (h *TileHash) TileCount() int {
	return len(h.Tiles)
}
