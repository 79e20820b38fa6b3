package layout

import (
	"strconv"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultLineCacheSize is the number of line layouts a window remembers.
const DefaultLineCacheSize = 1000

// LineCache memoizes line layouts by content and engine settings.
type LineCache struct {
	cache  *lru.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// NewLineCache creates a cache holding up to size layouts.
func NewLineCache(size int) *LineCache {
	if size <= 0 {
		size = DefaultLineCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &LineCache{cache: c}
}

// Get returns the layout of line under e, computing it on a miss. The
// returned layout is shared and must not be modified.
func (c *LineCache) Get(e LayoutEngine, line Fragments) *LineLayout {
	k := cacheKey(e, line)
	if v, ok := c.cache.Get(k); ok {
		c.hits.Add(1)
		return v.(*LineLayout)
	}
	c.misses.Add(1)
	l := e.Layout(line)
	c.cache.Add(k, l)
	return l
}

// Purge drops every cached layout.
func (c *LineCache) Purge() {
	c.cache.Purge()
}

// Stats returns hit and miss counts.
func (c *LineCache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.cache.Len(),
	}
}

func cacheKey(e LayoutEngine, line Fragments) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(e.TabWidth()))
	sb.WriteByte('/')
	sb.WriteString(strconv.Itoa(e.wrapWidth))
	sb.WriteByte('/')
	sb.WriteString(strconv.FormatBool(e.wrapAtWord))
	for _, f := range line {
		sb.WriteByte(0)
		sb.WriteString(f.Style)
		sb.WriteByte(1)
		sb.WriteString(f.Text)
	}
	return sb.String()
}
