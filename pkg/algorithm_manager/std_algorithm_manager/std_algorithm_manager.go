package std_algorithm_manager

import (
	"github.com/terravue/surveytiler/internal/converters"
	"github.com/terravue/surveytiler/internal/converters/coordinate/proj4_coordinate_converter"
	"github.com/terravue/surveytiler/internal/converters/elevation/offset_elevation_corrector"
	"github.com/terravue/surveytiler/internal/tiler"
	"github.com/terravue/surveytiler/pkg/algorithm_manager"
)

type StandardAlgorithmManager struct {
	coordinateConverter converters.CoordinateConverter
	elevationCorrector  converters.ElevationCorrector
}

func NewAlgorithmManager(opts *tiler.TilerOptions) algorithm_manager.AlgorithmManager {
	return &StandardAlgorithmManager{
		coordinateConverter: proj4_coordinate_converter.NewProj4CoordinateConverter(),
		elevationCorrector:  offset_elevation_corrector.NewOffsetElevationCorrector(opts.ZOffset),
	}
}

func (am *StandardAlgorithmManager) GetCoordinateConverterAlgorithm() converters.CoordinateConverter {
	return am.coordinateConverter
}

func (am *StandardAlgorithmManager) GetElevationCorrectionAlgorithm() converters.ElevationCorrector {
	return am.elevationCorrector
}
