package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/terravue/surveytiler/internal/tiler"
)

// TestLoadDefaults verifies an empty path yields the defaults.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tiling.TileSize != 64 {
		t.Errorf("default tile size: got %v, want 64", cfg.Tiling.TileSize)
	}
	if cfg.Sampling.Resolution != 65 {
		t.Errorf("default resolution: got %d, want 65", cfg.Sampling.Resolution)
	}
}

// TestLoadFile verifies a YAML file overrides the defaults.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
tiling:
  tile_size: 32
  internal_srid: 3857
sampling:
  resolution: 129
  workers: 2
limits:
  max_input_bytes: 1048576
  format_max_bytes:
    survey-tin: 524288
store:
  dir: /var/lib/surveytiler
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tiling.TileSize != 32 || cfg.Tiling.InternalSrid != 3857 {
		t.Errorf("tiling section: got %+v", cfg.Tiling)
	}
	if cfg.Sampling.Resolution != 129 || cfg.Sampling.Workers != 2 {
		t.Errorf("sampling section: got %+v", cfg.Sampling)
	}
	if cfg.Limits.MaxInputBytes != 1048576 || cfg.Limits.FormatMaxBytes["survey-tin"] != 524288 {
		t.Errorf("limits section: got %+v", cfg.Limits)
	}
	if cfg.Store.Dir != "/var/lib/surveytiler" {
		t.Errorf("store dir: got %q", cfg.Store.Dir)
	}
}

// TestLoadRejectsBadYAML verifies malformed files fail loudly.
func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tiling: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed YAML accepted")
	}
}

// TestApplyPrecedence verifies flag-set option fields win over the file.
func TestApplyPrecedence(t *testing.T) {
	cfg := Default()
	cfg.Tiling.TileSize = 32
	cfg.Store.Dir = "/from/file"

	opts := &tiler.TilerOptions{
		TileSize: 16, // set by flag, must survive
	}
	cfg.Apply(opts)

	if opts.TileSize != 16 {
		t.Errorf("flag tile size overridden: got %v", opts.TileSize)
	}
	if opts.StoreDir != "/from/file" {
		t.Errorf("store dir not filled from config: got %q", opts.StoreDir)
	}
	if opts.Resolution != 65 {
		t.Errorf("resolution not filled from defaults: got %d", opts.Resolution)
	}
}
