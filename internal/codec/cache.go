package codec

import (
	"sync"

	"github.com/ironsheep/image-layers-mcp/internal/imaging"
)

// Cache keeps decoded grids keyed by file path so repeated loads of the
// same file skip disk I/O and decoding.
//
// Grids are immutable, so a cached grid may be handed to any number of
// layers. Entries stay until Evict or Clear. A Cache is safe for
// concurrent use.
type Cache struct {
	mu    sync.RWMutex
	grids map[string]*imaging.Grid
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{grids: make(map[string]*imaging.Grid)}
}

// Load returns the cached grid for path, reading the file on a miss. The
// path is used verbatim as the key.
func (c *Cache) Load(path string) (*imaging.Grid, error) {
	c.mu.RLock()
	if g, ok := c.grids[path]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	g, err := Read(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.grids[path] = g
	c.mu.Unlock()

	return g, nil
}

// Evict drops path from the cache. Unknown paths are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.grids, path)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*imaging.Grid)
	c.mu.Unlock()
}

// Len returns the number of cached grids.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}
