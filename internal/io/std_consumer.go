package io

import (
	"fmt"
	"sync"

	"github.com/terravue/surveytiler/internal/sampler"
	"github.com/terravue/surveytiler/internal/store"
)

type StandardConsumer struct {
	store      store.Store
	resolution int
}

func NewStandardConsumer(st store.Store, resolution int) *StandardConsumer {
	return &StandardConsumer{
		store:      st,
		resolution: resolution,
	}
}

// Continually consumes WorkUnits submitted to the work channel, sampling the
// tile and persisting the resulting height grid. Works until the channel is
// closed or an error is raised; in the latter case the error is submitted to
// the error channel and the remaining work is drained unprocessed, so the
// producer never blocks on a full channel with no consumer left.
func (c *StandardConsumer) Consume(workchan chan *WorkUnit, errchan chan error, wg *sync.WaitGroup) {
	for work := range workchan {
		if err := c.doWork(work); err != nil {
			errchan <- err
			for range workchan {
			}
			break
		}
	}

	wg.Done()
}

func (c *StandardConsumer) doWork(work *WorkUnit) error {
	grid := sampler.Sample(work.Hash, work.TileIndex, c.resolution)
	if grid == nil {
		// the tile holds no covered sample at all, nothing to persist
		return nil
	}

	if err := c.store.StoreTile(work.MeshKey, work.TileIndex, grid); err != nil {
		return fmt.Errorf("storing tile %d of %q: %w", work.TileIndex, work.MeshKey, err)
	}
	return nil
}
