package proj4_coordinate_converter

import (
	"fmt"
	"math"

	proj "github.com/xeonx/proj4"

	"github.com/terravue/surveytiler/internal/converters"
	"github.com/terravue/surveytiler/internal/geometry"
)

const toRadians = math.Pi / 180
const toDegrees = 180 / math.Pi

// EPSG codes the converter knows how to initialize. Survey inputs outside
// this set must be converted upstream.
var epsgDefinitions = map[int]string{
	4326:  "+proj=longlat +datum=WGS84 +no_defs",
	3395:  "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
	3857:  "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs",
	32632: "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs",
	32633: "+proj=utm +zone=33 +datum=WGS84 +units=m +no_defs",
	25832: "+proj=utm +zone=32 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	25833: "+proj=utm +zone=33 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	28355: "+proj=utm +zone=55 +south +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
}

type proj4CoordinateConverter struct {
	projections map[int]*proj.Proj
}

func NewProj4CoordinateConverter() converters.CoordinateConverter {
	return &proj4CoordinateConverter{
		projections: make(map[int]*proj.Proj),
	}
}

func (c *proj4CoordinateConverter) ConvertCoordinateSrid(sourceSrid int, targetSrid int, coord geometry.Coordinate) (geometry.Coordinate, error) {
	if sourceSrid == targetSrid {
		return coord, nil
	}

	source, err := c.initProjection(sourceSrid)
	if err != nil {
		return coord, err
	}
	target, err := c.initProjection(targetSrid)
	if err != nil {
		return coord, err
	}

	return executeConversion(&coord, source, target)
}

func (c *proj4CoordinateConverter) Cleanup() {
	for _, p := range c.projections {
		p.Close()
	}
	c.projections = make(map[int]*proj.Proj)
}

func (c *proj4CoordinateConverter) initProjection(srid int) (*proj.Proj, error) {
	if p, ok := c.projections[srid]; ok {
		return p, nil
	}
	definition, ok := epsgDefinitions[srid]
	if !ok {
		return nil, fmt.Errorf("unknown EPSG srid %d", srid)
	}
	p, err := proj.InitPlus(definition)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize projection for EPSG %d: %w", srid, err)
	}
	c.projections[srid] = p
	return p, nil
}

func executeConversion(coord *geometry.Coordinate, source *proj.Proj, target *proj.Proj) (geometry.Coordinate, error) {
	x := []float64{coord.X}
	y := []float64{coord.Y}
	z := []float64{coord.Z}

	if source.IsLatLong() {
		x[0] *= toRadians
		y[0] *= toRadians
	}

	if err := proj.TransformRaw(source, target, x, y, z); err != nil {
		return *coord, fmt.Errorf("coordinate transform failed: %w", err)
	}

	if target.IsLatLong() {
		x[0] *= toDegrees
		y[0] *= toDegrees
	}

	return geometry.Coordinate{X: x[0], Y: y[0], Z: z[0]}, nil
}
