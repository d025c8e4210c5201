package geometry

import "math"

// A coordinate triplet in the survey's reference system
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

// Extents3 is an axis aligned bounding volume in the mesh local coordinate
// space. Min and max may coincide on any axis: degenerate extents are legal
// and downstream stages must tolerate them.
type Extents3 struct {
	MinX float64
	MinY float64
	MinZ float64
	MaxX float64
	MaxY float64
	MaxZ float64
}

// NewExtents3 returns extents primed for accumulation: min components start
// at the largest and max components at the smallest finite float64 so that
// the first ExpandPoint call collapses them onto the point.
func NewExtents3() Extents3 {
	return Extents3{
		MinX: math.MaxFloat64, MinY: math.MaxFloat64, MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64, MaxY: -math.MaxFloat64, MaxZ: -math.MaxFloat64,
	}
}

func NewExtents3FromValues(minX, minY, minZ, maxX, maxY, maxZ float64) Extents3 {
	return Extents3{
		MinX: minX, MinY: minY, MinZ: minZ,
		MaxX: maxX, MaxY: maxY, MaxZ: maxZ,
	}
}

// Grows the extents to include the given point
func (e *Extents3) ExpandPoint(x, y, z float64) {
	if x < e.MinX {
		e.MinX = x
	}
	if y < e.MinY {
		e.MinY = y
	}
	if z < e.MinZ {
		e.MinZ = z
	}
	if x > e.MaxX {
		e.MaxX = x
	}
	if y > e.MaxY {
		e.MaxY = y
	}
	if z > e.MaxZ {
		e.MaxZ = z
	}
}

// Width is the extent span along the X axis
func (e Extents3) Width() float64 {
	return e.MaxX - e.MinX
}

// Depth is the extent span along the Y axis
func (e Extents3) Depth() float64 {
	return e.MaxY - e.MinY
}

// Height is the extent span along the Z (vertical) axis
func (e Extents3) Height() float64 {
	return e.MaxZ - e.MinZ
}

// IsEmpty reports whether the extents never accumulated a point
func (e Extents3) IsEmpty() bool {
	return e.MinX > e.MaxX || e.MinY > e.MaxY || e.MinZ > e.MaxZ
}

// IsDegenerate2D reports whether the projected 2D footprint has zero area
func (e Extents3) IsDegenerate2D() bool {
	return e.IsEmpty() || e.Width() <= 0 || e.Depth() <= 0
}

// Contains2D tests the projected footprint with inclusive boundaries
func (e Extents3) Contains2D(x, y float64) bool {
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}
