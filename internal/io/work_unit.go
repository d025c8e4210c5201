package io

import (
	"github.com/terravue/surveytiler/internal/tilehash"
	"github.com/terravue/surveytiler/internal/tiler"
)

// Contains the minimal data needed to produce a single height grid tile
type WorkUnit struct {
	Hash      *tilehash.TileHash
	TileIndex uint32
	MeshKey   string
	Opts      *tiler.TilerOptions
}
