package tiler

// Contains the options driving the survey tiling pipeline
type TilerOptions struct {
	Input            string           // Input survey file/folder
	Srid             int              // EPSG code of the input survey coordinates, 0 to skip reprojection
	InternalSrid     int              // EPSG code of the planar system meshes are tiled in
	ZOffset          float64          // Vertical offset in meters applied to every vertex
	TileSize         float64          // Side of a square tile cell, in mesh units
	Resolution       int              // Per-axis sample count of each height grid
	Workers          int              // Number of concurrent tile sampling workers, 0 for NumCPU
	StoreDir         string           // Base directory of the file store
	FolderProcessing bool             // Enables processing of all survey files in the input folder
	Recursive        bool             // Recursive lookup of survey files in subfolders
	MaxInputBytes    int64            // Overall input size ceiling, 0 disables the check
	FormatMaxBytes   map[string]int64 // Per-format size ceilings keyed by decoder format

	Command            string
	TilerSampleOptions *TilerSampleOptions
	TilerVerifyOptions *TilerVerifyOptions
}

type TilerSampleOptions struct {
	MeshKey   string // Store key of the mesh to sample
	TileIndex uint32 // Tile to sample
}

type TilerVerifyOptions struct {
	ExportPly string // When set, path the decoded mesh is exported to as PLY
}

func (opt *TilerOptions) Copy() *TilerOptions {
	newOpt := &TilerOptions{
		Input:            opt.Input,
		Srid:             opt.Srid,
		InternalSrid:     opt.InternalSrid,
		ZOffset:          opt.ZOffset,
		TileSize:         opt.TileSize,
		Resolution:       opt.Resolution,
		Workers:          opt.Workers,
		StoreDir:         opt.StoreDir,
		FolderProcessing: opt.FolderProcessing,
		Recursive:        opt.Recursive,
		MaxInputBytes:    opt.MaxInputBytes,
		Command:          opt.Command,
	}

	if opt.FormatMaxBytes != nil {
		newOpt.FormatMaxBytes = make(map[string]int64, len(opt.FormatMaxBytes))
		for k, v := range opt.FormatMaxBytes {
			newOpt.FormatMaxBytes[k] = v
		}
	}

	if opt.TilerSampleOptions != nil {
		sampleOpt := *opt.TilerSampleOptions
		newOpt.TilerSampleOptions = &sampleOpt
	}

	if opt.TilerVerifyOptions != nil {
		verifyOpt := *opt.TilerVerifyOptions
		newOpt.TilerVerifyOptions = &verifyOpt
	}

	return newOpt
}
