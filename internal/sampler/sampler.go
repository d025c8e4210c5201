package sampler

import (
	"github.com/terravue/surveytiler/internal/tilehash"
)

// Barycentric weights this far below zero still count as inside, so samples
// landing exactly on a triangle edge are not lost to rounding.
const weightEpsilon = -1e-9

// HeightGrid is a dense raster of interpolated surface heights covering one
// tile. Heights are stored row-major: row 0 sits at the minimum Y edge of
// the tile and X grows within a row. Cells not covered by any triangle keep
// a zero height and a false entry in Valid; the mask is the only no-data
// signal, a zero height alone is a legitimate sample.
type HeightGrid struct {
	Rows    int
	Cols    int
	Heights []float32
	Valid   []bool
}

// ValidCount returns the number of covered cells
func (g *HeightGrid) ValidCount() int {
	n := 0
	for _, v := range g.Valid {
		if v {
			n++
		}
	}
	return n
}

// Sample interpolates a resolution x resolution lattice of heights over the
// given tile. Sample positions are vertex aligned: for resolution n > 1 they
// sit at min + i*size/(n-1) on each axis, inclusive of both tile edges, and
// a resolution of 1 samples the tile center.
//
// Returns nil when the tile index is absent from the hash, its triangle list
// is empty, or not a single lattice point is covered. Absence is a result,
// not an error. Repeated calls with identical arguments produce bit
// identical grids: candidate triangles are tested in their stable per-tile
// order and the first containing triangle wins.
func Sample(h *tilehash.TileHash, tileIndex uint32, resolution int) *HeightGrid {
	tris, ok := h.Tiles[tileIndex]
	if !ok || len(tris) == 0 || resolution <= 0 {
		return nil
	}

	minX, minY, maxX, maxY := h.TileBounds(tileIndex)

	grid := &HeightGrid{
		Rows:    resolution,
		Cols:    resolution,
		Heights: make([]float32, resolution*resolution),
		Valid:   make([]bool, resolution*resolution),
	}

	anyValid := false
	for row := 0; row < resolution; row++ {
		y := samplePosition(minY, maxY, row, resolution)
		for col := 0; col < resolution; col++ {
			x := samplePosition(minX, maxX, col, resolution)
			cell := row*resolution + col
			for _, ti := range tris {
				tri := &h.Tris[ti]
				if x < tri.MinX || x > tri.MaxX || y < tri.MinY || y > tri.MaxY {
					continue
				}
				w0, w1, w2, inside := barycentric(tri, x, y)
				if !inside {
					continue
				}
				// interpolate in double precision, narrow only on the
				// final write
				z := w0*tri.Z[0] + w1*tri.Z[1] + w2*tri.Z[2]
				grid.Heights[cell] = float32(z)
				grid.Valid[cell] = true
				anyValid = true
				break
			}
		}
	}

	if !anyValid {
		return nil
	}
	return grid
}

func samplePosition(min, max float64, i, resolution int) float64 {
	if resolution == 1 {
		return min + (max-min)/2
	}
	return min + float64(i)*(max-min)/float64(resolution-1)
}

// barycentric computes the weights of (x, y) with respect to the projected
// triangle. Degenerate triangles have a zero denominator and report no
// containment, so they contribute zero coverage as required.
func barycentric(tri *tilehash.Triangle, x, y float64) (w0, w1, w2 float64, inside bool) {
	d := (tri.Y[1]-tri.Y[2])*(tri.X[0]-tri.X[2]) + (tri.X[2]-tri.X[1])*(tri.Y[0]-tri.Y[2])
	if d == 0 {
		return 0, 0, 0, false
	}
	w0 = ((tri.Y[1]-tri.Y[2])*(x-tri.X[2]) + (tri.X[2]-tri.X[1])*(y-tri.Y[2])) / d
	w1 = ((tri.Y[2]-tri.Y[0])*(x-tri.X[2]) + (tri.X[0]-tri.X[2])*(y-tri.Y[2])) / d
	w2 = 1 - w0 - w1
	if w0 < weightEpsilon || w1 < weightEpsilon || w2 < weightEpsilon {
		return 0, 0, 0, false
	}
	return w0, w1, w2, true
}
