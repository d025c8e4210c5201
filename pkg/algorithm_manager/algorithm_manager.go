package algorithm_manager

import (
	"github.com/terravue/surveytiler/internal/converters"
)

type AlgorithmManager interface {
	GetCoordinateConverterAlgorithm() converters.CoordinateConverter
	GetElevationCorrectionAlgorithm() converters.ElevationCorrector
}
