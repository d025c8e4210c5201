package io

import (
	"sort"
	"sync"

	"github.com/terravue/surveytiler/internal/tilehash"
	"github.com/terravue/surveytiler/internal/tiler"
)

type StandardProducer struct {
	meshKey string
	options *tiler.TilerOptions
}

func NewStandardProducer(meshKey string, options *tiler.TilerOptions) *StandardProducer {
	return &StandardProducer{
		meshKey: meshKey,
		options: options,
	}
}

// Walks the populated tiles of the hash and submits one WorkUnit per tile to
// the work channel. Tiles are visited in ascending index order so the
// submission sequence is deterministic regardless of map iteration. Closes
// the channel when all work is submitted.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup, hash *tilehash.TileHash) {
	indices := make([]uint32, 0, len(hash.Tiles))
	for index := range hash.Tiles {
		indices = append(indices, index)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	for _, index := range indices {
		work <- &WorkUnit{
			Hash:      hash,
			TileIndex: index,
			MeshKey:   p.meshKey,
			Opts:      p.options,
		}
	}

	close(work)
	wg.Done()
}
