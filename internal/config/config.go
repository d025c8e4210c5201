// Package config loads pipeline settings from an optional YAML file.
// Precedence is defaults < file < command line flags.
package config

import (
	"github.com/terravue/surveytiler/internal/tiler"
)

// Config mirrors TilerOptions in file form
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Tiling   TilingConfig   `yaml:"tiling"`
	Sampling SamplingConfig `yaml:"sampling"`
	Limits   LimitsConfig   `yaml:"limits"`
	Store    StoreConfig    `yaml:"store"`
}

// InputConfig holds survey input settings
type InputConfig struct {
	Srid      int     `yaml:"srid"`
	ZOffset   float64 `yaml:"z_offset"`
	Folder    bool    `yaml:"folder"`
	Recursive bool    `yaml:"recursive"`
}

// TilingConfig holds the tile grid settings
type TilingConfig struct {
	TileSize     float64 `yaml:"tile_size"`
	InternalSrid int     `yaml:"internal_srid"`
}

// SamplingConfig holds the height grid settings
type SamplingConfig struct {
	Resolution int `yaml:"resolution"`
	Workers    int `yaml:"workers"`
}

// LimitsConfig holds the input size ceilings enforced before decoding
type LimitsConfig struct {
	MaxInputBytes  int64            `yaml:"max_input_bytes"`
	FormatMaxBytes map[string]int64 `yaml:"format_max_bytes"`
}

// StoreConfig holds the persistence settings
type StoreConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the settings used when no file and no flags override them
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Srid: 0,
		},
		Tiling: TilingConfig{
			TileSize:     64,
			InternalSrid: 3395,
		},
		Sampling: SamplingConfig{
			Resolution: 65,
		},
		Limits: LimitsConfig{
			MaxInputBytes: 512 << 20,
		},
		Store: StoreConfig{
			Dir: "./tileset",
		},
	}
}

// Apply copies the configuration onto existing tiler options. Zero-valued
// option fields are filled in, already-set fields (flags) win.
func (c *Config) Apply(opts *tiler.TilerOptions) {
	if opts.Srid == 0 {
		opts.Srid = c.Input.Srid
	}
	if opts.ZOffset == 0 {
		opts.ZOffset = c.Input.ZOffset
	}
	if !opts.FolderProcessing {
		opts.FolderProcessing = c.Input.Folder
	}
	if !opts.Recursive {
		opts.Recursive = c.Input.Recursive
	}
	if opts.TileSize == 0 {
		opts.TileSize = c.Tiling.TileSize
	}
	if opts.InternalSrid == 0 {
		opts.InternalSrid = c.Tiling.InternalSrid
	}
	if opts.Resolution == 0 {
		opts.Resolution = c.Sampling.Resolution
	}
	if opts.Workers == 0 {
		opts.Workers = c.Sampling.Workers
	}
	if opts.MaxInputBytes == 0 {
		opts.MaxInputBytes = c.Limits.MaxInputBytes
	}
	if opts.FormatMaxBytes == nil {
		opts.FormatMaxBytes = c.Limits.FormatMaxBytes
	}
	if opts.StoreDir == "" {
		opts.StoreDir = c.Store.Dir
	}
}
