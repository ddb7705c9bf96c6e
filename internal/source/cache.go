package source

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the number of lexed units kept
const DefaultCacheSize = 256

// Cache keeps lexed units keyed by path and language version. Concurrent
// loads of the same key are coalesced.
type Cache struct {
	units  *lru.ARCCache
	sf     singleflight.Group
	logger *slog.Logger
}

// NewCache creates a cache holding up to size units
func NewCache(size int, logger *slog.Logger) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	units, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{units: units, logger: logger}, nil
}

func cacheKey(path string, version int) string {
	return fmt.Sprintf("%s@v%d", path, version)
}

// Get returns the cached unit or builds it with load
func (c *Cache) Get(path string, version int, load func() (*Unit, error)) (*Unit, error) {
	key := cacheKey(path, version)
	if v, ok := c.units.Get(key); ok {
		return v.(*Unit), nil
	}
	v, err, shared := c.sf.Do(key, func() (interface{}, error) {
		if v, ok := c.units.Get(key); ok {
			return v, nil
		}
		u, err := load()
		if err != nil {
			return nil, err
		}
		c.units.Add(key, u)
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("coalesced unit load", "path", path, "version", version)
	}
	return v.(*Unit), nil
}

// Invalidate drops every version of the unit at path
func (c *Cache) Invalidate(path string) int {
	prefix := path + "@v"
	var n int
	for _, k := range c.units.Keys() {
		if s, ok := k.(string); ok && strings.HasPrefix(s, prefix) {
			c.units.Remove(k)
			n++
		}
	}
	if n > 0 {
		c.logger.Debug("invalidated unit", "path", path, "entries", n)
	}
	return n
}

// Len returns the number of cached units
func (c *Cache) Len() int {
	return c.units.Len()
}

// Purge empties the cache
func (c *Cache) Purge() {
	c.units.Purge()
}
