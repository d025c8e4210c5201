package pkg

import (
	"path/filepath"

	"github.com/golang/glog"

	"github.com/terravue/surveytiler/internal/plyexport"
	"github.com/terravue/surveytiler/internal/tiler"
	"github.com/terravue/surveytiler/pkg/algorithm_manager"
	"github.com/terravue/surveytiler/tools"
)

type TilerVerify struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewTilerVerify(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) ITiler {
	return &TilerVerify{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Decodes the input survey files and reports their structure without
// producing any tile, optionally exporting each decoded mesh to PLY.
func (tv *TilerVerify) RunTiler(opts *tiler.TilerOptions) error {
	inner := &Tiler{fileFinder: tv.fileFinder, algorithmManager: tv.algorithmManager}

	for _, filePath := range tv.fileFinder.GetSurveyFilesToProcess(opts) {
		glog.Infoln("> reading data from survey file...", filepath.Base(filePath))

		m, err := inner.DecodeSurveyFile(filePath, opts)
		if err != nil {
			glog.Infoln(err)
			return err
		}

		ext := m.ComputeExtents()
		glog.Infoln("survey_file num_of_points:", m.PointCount(), ", num_of_triangles:", m.TriangleCount())
		glog.Infoln("survey_file translate:", tools.FmtJSONString(m.Translate))
		glog.Infoln("survey_file extents(local):", tools.FmtJSONString(ext))

		if opts.TilerVerifyOptions != nil && opts.TilerVerifyOptions.ExportPly != "" {
			exportPath := opts.TilerVerifyOptions.ExportPly
			glog.Infoln("> exporting mesh to ply...", exportPath)
			plyexport.Export(exportPath, m)
		}

		glog.Infoln("> done processing", filepath.Base(filePath))
	}

	tv.algorithmManager.GetCoordinateConverterAlgorithm().Cleanup()

	glog.Infoln("Verify survey files success.")
	return nil
}
