package pkg

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	"github.com/terravue/surveytiler/internal/decoder"
	"github.com/terravue/surveytiler/internal/geometry"
	"github.com/terravue/surveytiler/internal/io"
	"github.com/terravue/surveytiler/internal/mesh"
	"github.com/terravue/surveytiler/internal/store"
	"github.com/terravue/surveytiler/internal/tilehash"
	"github.com/terravue/surveytiler/internal/tiler"
	"github.com/terravue/surveytiler/pkg/algorithm_manager"
	"github.com/terravue/surveytiler/tools"
)

type ITiler interface {
	RunTiler(opts *tiler.TilerOptions) error
}

type Tiler struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewTiler(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) ITiler {
	return &Tiler{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Starts the tiling process: every discovered survey file is decoded,
// persisted, hashed into tiles and sampled into height grids. A failure
// aborts only the offending file, the remaining files still get processed.
func (t *Tiler) RunTiler(opts *tiler.TilerOptions) error {
	log.Println("Preparing list of files to process...")

	surveyFiles := t.fileFinder.GetSurveyFilesToProcess(opts)
	for i, filePath := range surveyFiles {
		log.Printf("survey_file path %d [%s]", i, filePath)
	}

	fileStore, err := store.NewFileStore(opts.StoreDir)
	if err != nil {
		return err
	}

	failed := 0
	for i, filePath := range surveyFiles {
		tools.LogOutput("Processing file " + strconv.Itoa(i+1) + "/" + strconv.Itoa(len(surveyFiles)))
		if err := t.ProcessSurveyFile(filePath, opts, fileStore); err != nil {
			log.Printf("error processing %s: %v", filePath, err)
			failed++
		}
	}
	t.algorithmManager.GetCoordinateConverterAlgorithm().Cleanup()

	if failed > 0 {
		return fmt.Errorf("%d of %d survey files failed", failed, len(surveyFiles))
	}
	return nil
}

// ProcessSurveyFile runs the whole pipeline for a single survey file
func (t *Tiler) ProcessSurveyFile(filePath string, opts *tiler.TilerOptions, fileStore store.Store) error {
	m, err := t.DecodeSurveyFile(filePath, opts)
	if err != nil {
		return err
	}

	meshKey := getFilenameWithoutExtension(filePath)
	tools.LogOutput("> storing mesh...", meshKey)
	if err := fileStore.StoreMesh(meshKey, m); err != nil {
		return err
	}

	hash := t.buildTileHash(m, opts)
	tools.LogOutput("> tiles with data:", hash.TileCount(), "of", hash.Columns*hash.Rows)

	if err := t.sampleAllTiles(hash, meshKey, opts, fileStore); err != nil {
		return err
	}

	tools.LogOutput("> done processing", filepath.Base(filePath))
	return nil
}

// DecodeSurveyFile reads, size-checks and decodes one survey file into a
// normalized mesh, reprojecting and elevation-correcting the raw vertices
// when the survey declares a source reference system.
func (t *Tiler) DecodeSurveyFile(filePath string, opts *tiler.TilerOptions) (*mesh.Mesh, error) {
	tools.LogOutput("> reading data from survey file...", filepath.Base(filePath))

	format, ok := decoder.FormatForPath(filePath)
	if !ok {
		return nil, fmt.Errorf("unsupported extension %q", filepath.Ext(filePath))
	}

	buf, err := readWithinLimits(filePath, format, opts)
	if err != nil {
		return nil, err
	}

	if format != decoder.FormatSurveyTIN || (!needsReprojection(opts) && opts.ZOffset == 0) {
		return decoder.Decode(format, buf)
	}

	// survey coordinates need per-vertex correction: reproject and adjust
	// the raw double precision vertices before they get normalized and
	// narrowed. Snapshots skip this, they were corrected when first stored.
	verts, indices, err := decoder.ParseSurveyTIN(buf)
	if err != nil {
		return nil, err
	}
	converted, err := t.convertVertices(verts, opts)
	if err != nil {
		return nil, err
	}
	return decoder.BuildMesh(converted, indices), nil
}

func needsReprojection(opts *tiler.TilerOptions) bool {
	return opts.Srid != 0 && opts.Srid != opts.InternalSrid
}

func (t *Tiler) convertVertices(verts []float64, opts *tiler.TilerOptions) ([]float64, error) {
	converter := t.algorithmManager.GetCoordinateConverterAlgorithm()
	corrector := t.algorithmManager.GetElevationCorrectionAlgorithm()
	reproject := needsReprojection(opts)

	converted := make([]float64, len(verts))
	for i := 0; i+2 < len(verts); i += 3 {
		coord := coordinateAt(verts, i)
		if reproject {
			var err error
			coord, err = converter.ConvertCoordinateSrid(opts.Srid, opts.InternalSrid, coord)
			if err != nil {
				return nil, err
			}
		}
		converted[i] = coord.X
		converted[i+1] = coord.Y
		converted[i+2] = corrector.CorrectElevation(coord.X, coord.Y, coord.Z)
	}
	return converted, nil
}

func (t *Tiler) buildTileHash(m *mesh.Mesh, opts *tiler.TilerOptions) *tilehash.TileHash {
	tools.LogOutput("> building tile hash...")
	return tilehash.Build(m, m.ComputeExtents(), opts.TileSize)
}

// sampleAllTiles drives the producer/consumer pool over every populated tile
func (t *Tiler) sampleAllTiles(hash *tilehash.TileHash, meshKey string, opts *tiler.TilerOptions, fileStore store.Store) error {
	tools.LogOutput("> sampling height grids...")

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	workchan := make(chan *io.WorkUnit, workers*2)
	errchan := make(chan error, workers)

	var producerWG sync.WaitGroup
	producerWG.Add(1)
	producer := io.NewStandardProducer(meshKey, opts)
	go producer.Produce(workchan, &producerWG, hash)

	var consumerWG sync.WaitGroup
	for i := 0; i < workers; i++ {
		consumerWG.Add(1)
		consumer := io.NewStandardConsumer(fileStore, opts.Resolution)
		go consumer.Consume(workchan, errchan, &consumerWG)
	}

	producerWG.Wait()
	consumerWG.Wait()
	close(errchan)

	for err := range errchan {
		if err != nil {
			return err
		}
	}
	return nil
}

// readWithinLimits loads the file enforcing the absolute and per-format
// size ceilings before the decoder ever sees the bytes.
func readWithinLimits(filePath string, format decoder.Format, opts *tiler.TilerOptions) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if opts.MaxInputBytes > 0 && info.Size() > opts.MaxInputBytes {
		return nil, fmt.Errorf("file too large: %d bytes exceeds the %d byte ceiling", info.Size(), opts.MaxInputBytes)
	}
	if ceiling, ok := opts.FormatMaxBytes[string(format)]; ok && ceiling > 0 && info.Size() > ceiling {
		return nil, fmt.Errorf("file too large: %d bytes exceeds the %d byte ceiling for format %s", info.Size(), ceiling, format)
	}
	return os.ReadFile(filePath)
}

func coordinateAt(verts []float64, i int) geometry.Coordinate {
	return geometry.Coordinate{X: verts[i], Y: verts[i+1], Z: verts[i+2]}
}

func getFilenameWithoutExtension(filePath string) string {
	nameWext := filepath.Base(filePath)
	extension := filepath.Ext(nameWext)
	return nameWext[0 : len(nameWext)-len(extension)]
}
