package pattern

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey identifies a compiled-pattern cache entry by the raw pattern set
// joined with a separator that cannot appear mid-pattern, plus the flag
// tuple that affects compilation, per spec §4.1's pattern cache.
type cacheKey struct {
	patterns string
	flags    CompileOptions
}

// Cache memoizes CompileAll results keyed by (patterns, options), evicting
// least-recently-used entries and releasing any PCRE resources a pattern
// holds when it falls out of the cache. Grounded on the teacher's use of an
// LRU for its own compiled-matcher cache in internal/matcher/factory.go.
type Cache struct {
	mu    sync.Mutex
	inner *lru.Cache[cacheKey, []*Pattern]
}

// NewCache builds a compiled-pattern cache holding up to size entries. A
// size <= 0 disables caching: Get always misses and Put is a no-op.
func NewCache(size int) *Cache {
	if size <= 0 {
		return &Cache{}
	}
	c := &Cache{}
	inner, err := lru.NewWithEvict(size, func(_ cacheKey, patterns []*Pattern) {
		for _, p := range patterns {
			p.Close()
		}
	})
	if err != nil {
		// size <= 0 already handled above; NewWithEvict only errors on
		// a non-positive size, so this path is unreachable in practice.
		return c
	}
	c.inner = inner
	return c
}

func key(rawPatterns []string, opts CompileOptions) cacheKey {
	return cacheKey{patterns: strings.Join(rawPatterns, "\x00"), flags: opts}
}

// Get returns a previously compiled result for this exact (patterns,
// options) pair, if still cached.
func (c *Cache) Get(rawPatterns []string, opts CompileOptions) ([]*Pattern, bool) {
	if c.inner == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Get(key(rawPatterns, opts))
}

// Put stores a compiled result, evicting (and Close-ing) the least recently
// used entry if the cache is full.
func (c *Cache) Put(rawPatterns []string, opts CompileOptions, compiled []*Pattern) {
	if c.inner == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Add(key(rawPatterns, opts), compiled)
}

// CompileCached is CompileAll with cache lookup/population folded in. A nil
// cache behaves exactly like calling CompileAll directly.
func CompileCached(cache *Cache, rawPatterns []string, opts CompileOptions) ([]*Pattern, error) {
	if cache != nil {
		if hit, ok := cache.Get(rawPatterns, opts); ok {
			return hit, nil
		}
	}
	compiled, err := CompileAll(rawPatterns, opts)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Put(rawPatterns, opts, compiled)
	}
	return compiled, nil
}
