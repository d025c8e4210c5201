package io

import (
	"sync"

	"github.com/terravue/surveytiler/internal/tilehash"
)

type Producer interface {
	Produce(work chan *WorkUnit, wg *sync.WaitGroup, hash *tilehash.TileHash)
}

type Consumer interface {
	Consume(workchan chan *WorkUnit, errchan chan error, wg *sync.WaitGroup)
}
