package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/terravue/surveytiler/internal/decoder"
	"github.com/terravue/surveytiler/internal/mesh"
	"github.com/terravue/surveytiler/internal/sampler"
	"github.com/terravue/surveytiler/tools"
)

// Store is the persistence collaborator the tiling core is written against.
// Everything crosses this boundary as serialized bytes, never as shared
// struct references, so any backend able to hold byte blobs can implement
// it.
type Store interface {
	StoreMesh(key string, m *mesh.Mesh) error
	LoadMesh(key string) (*mesh.Mesh, error)
	StoreTile(key string, tileIndex uint32, grid *sampler.HeightGrid) error
	LoadTile(key string, tileIndex uint32) (*sampler.HeightGrid, error)
	ListMeshes() ([]string, error)
	ListTiles(key string) ([]uint32, error)
	DeleteMesh(key string) error
}

const (
	meshDirName = "meshes"
	tileDirName = "tiles"
	meshExt     = ".mesh"
	tileExt     = ".hgt"
)

// FileStore keeps meshes and height grids as flat files below a base
// directory: meshes/<key>.mesh and tiles/<key>/<index>.hgt.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	for _, dir := range []string{
		filepath.Join(baseDir, meshDirName),
		filepath.Join(baseDir, tileDirName),
	} {
		if err := tools.CreateDirectoryIfDoesNotExist(dir); err != nil {
			return nil, fmt.Errorf("cannot prepare store directory %s: %w", dir, err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) meshPath(key string) string {
	return filepath.Join(s.baseDir, meshDirName, key+meshExt)
}

func (s *FileStore) tileDir(key string) string {
	return filepath.Join(s.baseDir, tileDirName, key)
}

func (s *FileStore) tilePath(key string, tileIndex uint32) string {
	return filepath.Join(s.tileDir(key), strconv.FormatUint(uint64(tileIndex), 10)+tileExt)
}

func (s *FileStore) StoreMesh(key string, m *mesh.Mesh) error {
	return os.WriteFile(s.meshPath(key), decoder.MeshToBytes(m), 0644)
}

func (s *FileStore) LoadMesh(key string) (*mesh.Mesh, error) {
	buf, err := os.ReadFile(s.meshPath(key))
	if err != nil {
		return nil, fmt.Errorf("cannot load mesh %q: %w", key, err)
	}
	return decoder.MeshFromBytes(buf)
}

func (s *FileStore) StoreTile(key string, tileIndex uint32, grid *sampler.HeightGrid) error {
	if err := tools.CreateDirectoryIfDoesNotExist(s.tileDir(key)); err != nil {
		return err
	}
	return os.WriteFile(s.tilePath(key, tileIndex), grid.ToBytes(), 0644)
}

func (s *FileStore) LoadTile(key string, tileIndex uint32) (*sampler.HeightGrid, error) {
	buf, err := os.ReadFile(s.tilePath(key, tileIndex))
	if err != nil {
		return nil, fmt.Errorf("cannot load tile %d of %q: %w", tileIndex, key, err)
	}
	return sampler.GridFromBytes(buf)
}

func (s *FileStore) ListMeshes() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, meshDirName))
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, meshExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, meshExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) ListTiles(key string) ([]uint32, error) {
	entries, err := os.ReadDir(s.tileDir(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var indices []uint32
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, tileExt) {
			continue
		}
		index, err := strconv.ParseUint(strings.TrimSuffix(name, tileExt), 10, 32)
		if err != nil {
			continue
		}
		indices = append(indices, uint32(index))
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	return indices, nil
}

// DeleteMesh removes the mesh and every tile derived from it
func (s *FileStore) DeleteMesh(key string) error {
	if err := os.RemoveAll(s.tileDir(key)); err != nil {
		return err
	}
	err := os.Remove(s.meshPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
