package converters

type ElevationCorrector interface {
	CorrectElevation(x, y, z float64) float64
}
