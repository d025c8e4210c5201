package pkg

import (
	"fmt"

	"github.com/terravue/surveytiler/internal/sampler"
	"github.com/terravue/surveytiler/internal/store"
	"github.com/terravue/surveytiler/internal/tilehash"
	"github.com/terravue/surveytiler/internal/tiler"
	"github.com/terravue/surveytiler/tools"
)

// SampleTile is the incremental on-demand path: it loads a previously stored
// mesh, rebuilds its tile hash and samples a single tile. The grid is
// persisted for subsequent requests and returned; a nil grid with a nil
// error means the tile holds no data.
func SampleTile(opts *tiler.TilerOptions, fileStore store.Store, meshKey string, tileIndex uint32) (grid *sampler.HeightGrid, err error) {
	// a corrupt stored mesh must surface as a diagnosable error, never
	// crash the worker that shares this process
	defer func() {
		if r := recover(); r != nil {
			grid = nil
			err = fmt.Errorf("internal fault sampling tile %d of %q: %v", tileIndex, meshKey, r)
		}
	}()

	m, err := fileStore.LoadMesh(meshKey)
	if err != nil {
		return nil, err
	}

	hash := tilehash.Build(m, m.ComputeExtents(), opts.TileSize)
	if int(tileIndex) >= hash.Columns*hash.Rows {
		return nil, fmt.Errorf("tile index %d outside the %dx%d grid of %q", tileIndex, hash.Columns, hash.Rows, meshKey)
	}

	grid = sampler.Sample(hash, tileIndex, opts.Resolution)
	if grid == nil {
		tools.LogOutput("tile", tileIndex, "of", meshKey, "holds no data")
		return nil, nil
	}

	if err := fileStore.StoreTile(meshKey, tileIndex, grid); err != nil {
		return nil, err
	}
	return grid, nil
}
