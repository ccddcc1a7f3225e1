// Package assets loads reference meshes from disk and serves random draws
// from them.
package assets

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/anvil/internal/logger"
	"github.com/Faultbox/anvil/internal/terrain"
	"github.com/Faultbox/anvil/pkg/formats"
	"github.com/Faultbox/anvil/pkg/mesh"
)

// Library holds the reference meshes. Loaded meshes are never mutated, and
// a reload swaps the whole set, so readers only need the read lock.
type Library struct {
	meshes []*mesh.Mesh
	names  []string
	cache  *Cache
	mu     sync.RWMutex
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{
		cache: NewCache(),
	}
}

// LoadDir replaces the library contents with every .obj file in dir, in
// name order. Each mesh must fit the fixed encoding channels. On error the
// previous contents are kept and the parse cache is dropped.
func (l *Library) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.cache.Clear()
		return 0, fmt.Errorf("reading library directory %s: %w", dir, err)
	}

	var meshes []*mesh.Mesh
	var names, paths []string
	for _, entry := range entries {
		if entry.IsDir() || !formats.IsWavefront(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		m, err := l.load(path)
		if err != nil {
			l.cache.Clear()
			return 0, err
		}
		meshes = append(meshes, m)
		names = append(names, entry.Name())
		paths = append(paths, path)
	}
	l.cache.Retain(paths)

	l.mu.Lock()
	l.meshes = meshes
	l.names = names
	l.mu.Unlock()

	hits, misses := l.cache.Stats()
	logger.Info("mesh library loaded",
		zap.String("dir", dir),
		zap.Int("meshes", len(meshes)),
		zap.Int("cached", l.cache.Len()),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses))

	return len(meshes), nil
}

// load parses path unless an unchanged copy is cached.
func (l *Library) load(path string) (*mesh.Mesh, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	stamp := Stamp{ModTime: info.ModTime(), Size: info.Size()}
	if m, ok := l.cache.Get(path, stamp); ok {
		return m, nil
	}

	m, err := formats.LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	if _, err := mesh.Encode(m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.cache.Set(path, stamp, m)
	return m, nil
}

// Add appends a copy of m under name. The mesh must fit the fixed encoding
// channels.
func (l *Library) Add(name string, m *mesh.Mesh) error {
	if _, err := mesh.Encode(m); err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	c := m.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.meshes = append(l.meshes, c)
	l.names = append(l.names, name)
	return nil
}

// Len returns the number of loaded meshes.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.meshes)
}

// Names returns the mesh names in library order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.names...)
}

// SampleRandom returns a copy of a uniformly chosen mesh.
func (l *Library) SampleRandom(rng *rand.Rand) (*mesh.Mesh, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.meshes) == 0 {
		return nil, terrain.ErrLibraryEmpty
	}
	return l.meshes[rng.IntN(len(l.meshes))].Clone(), nil
}

// Stamp identifies one version of a file on disk.
type Stamp struct {
	ModTime time.Time
	Size    int64
}

type cacheEntry struct {
	stamp Stamp
	mesh  *mesh.Mesh
}

// Cache keeps parsed meshes keyed by path, invalidated by file stamp.
type Cache struct {
	data map[string]cacheEntry
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]cacheEntry),
	}
}

// Get returns the cached mesh for path if it was stored with stamp.
func (c *Cache) Get(path string, stamp Stamp) (*mesh.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[path]
	if ok && e.stamp.Size == stamp.Size && e.stamp.ModTime.Equal(stamp.ModTime) {
		c.hits++
		return e.mesh, true
	}
	c.misses++
	return nil, false
}

// Set stores a parsed mesh.
func (c *Cache) Set(path string, stamp Stamp, m *mesh.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[path] = cacheEntry{stamp: stamp, mesh: m}
}

// Retain drops every entry whose path is not in paths.
func (c *Cache) Retain(paths []string) {
	keep := make(map[string]bool, len(paths))
	for _, p := range paths {
		keep[p] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.data {
		if !keep[p] {
			delete(c.data, p)
		}
	}
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]cacheEntry)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
