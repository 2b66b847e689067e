// Package cache persists clipped meshes in a content-addressed on-disk
// store. Entries are keyed by a hash of the source mesh identity plus
// every clip parameter, so a changed parameter can never serve a stale
// result.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/gocarve/pkg/clip"
	"github.com/philipparndt/gocarve/pkg/mesh"
)

// Cache is an on-disk mesh store rooted at a directory
type Cache struct {
	dir string
}

// New opens (creating if necessary) a cache at dir
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root directory
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".gcmesh")
}

// Has reports whether an entry exists for the key
func (c *Cache) Has(key string) bool {
	_, err := os.Stat(c.path(key))
	return err == nil
}

// Load reads the cached mesh for the key
func (c *Cache) Load(key string) (*mesh.Mesh, error) {
	file, err := os.Open(c.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache entry: %w", err)
	}
	defer file.Close()

	m, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return m, nil
}

// Store writes the mesh under the key. The entry is written to a
// temporary file first so a crash never leaves a truncated entry
// behind.
func (c *Cache) Store(key string, m *mesh.Mesh) error {
	tmp, err := os.CreateTemp(c.dir, key+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}

	if err := Encode(tmp, m); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to publish cache entry %s: %w", key, err)
	}
	return nil
}

// PlaneKey derives the cache key for a half-space clip of the mesh
// identified by meshID.
func PlaneKey(meshID string, plane clip.Plane, keepPositive bool, eps float64) string {
	h := sha256.New()
	fmt.Fprintf(h, "plane|%s|%g,%g,%g|%g,%g,%g|%t|%g",
		meshID,
		plane.Point.X, plane.Point.Y, plane.Point.Z,
		plane.Normal.X, plane.Normal.Y, plane.Normal.Z,
		keepPositive, eps)
	return hex.EncodeToString(h.Sum(nil))
}

// BoreKey derives the cache key for a bore clip of the mesh identified
// by meshID.
func BoreKey(meshID string, vol clip.BoreVolume, keepInside bool, eps float64) string {
	h := sha256.New()
	fmt.Fprintf(h, "bore|%s|%g,%g,%g|%g,%g,%g|%g|%g|%g|%t|%g",
		meshID,
		vol.Center.X, vol.Center.Y, vol.Center.Z,
		vol.Axis.X, vol.Axis.Y, vol.Axis.Z,
		vol.Start, vol.Length, vol.PreserveDepth,
		keepInside, eps)
	for _, p := range vol.Profile.Points {
		fmt.Fprintf(h, "|%g:%g", p.Position, p.Radius)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MeshID derives a stable identity string for a mesh file from its
// path, size and modification time.
func MeshID(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	return fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}
