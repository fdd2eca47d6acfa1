package walker

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// dirCache is the optional directory-listing cache named by spec §3/§5's
// `cache` option: entries are valid for a short TTL to bound staleness,
// get and put serialize on the cache's own mutex, and it is keyed
// by absolute directory path exactly like the compiled-pattern cache in
// internal/pattern/cache.go — the same hashicorp/golang-lru backing, a
// different key/value shape.
type dirCache struct {
	mu    sync.Mutex
	inner *lru.Cache[string, dirCacheEntry]
	ttl   time.Duration
}

type dirCacheEntry struct {
	entries []Dirent
	expires time.Time
}

// newDirCache builds a dirCache holding up to size directories' listings,
// each valid for ttl. A non-positive size or ttl disables caching: get
// always misses and put is a no-op.
func newDirCache(size int, ttl time.Duration) *dirCache {
	if size <= 0 || ttl <= 0 {
		return nil
	}
	inner, err := lru.New[string, dirCacheEntry](size)
	if err != nil {
		return nil
	}
	return &dirCache{inner: inner, ttl: ttl}
}

func (c *dirCache) get(path string) ([]Dirent, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.inner.Get(path)
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.entries, true
}

func (c *dirCache) put(path string, entries []Dirent) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Add(path, dirCacheEntry{entries: entries, expires: time.Now().Add(c.ttl)})
}
