package lru

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist"
)

// verdictCache is an LRU-backed implementation of blocklist.VerdictCache.
// It tracks basic metrics: hits, misses, and evictions.
type verdictCache struct {
	lru       *lru.Cache[string, domain.BlockDecision]
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache is a no-op VerdictCache used when size <= 0.
type disabledCache struct{}

// New creates a VerdictCache with the given capacity. If size <= 0, a
// disabled no-op cache is returned that always misses and tracks no metrics.
func New(size int) (blocklist.VerdictCache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	var vc verdictCache
	// NewWithEvict observes evictions, including Purge-induced ones.
	cache, err := lru.NewWithEvict(size, func(_ string, _ domain.BlockDecision) {
		atomic.AddUint64(&vc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	vc.lru = cache
	return &vc, nil
}

// Get looks up a verdict by candidate, counting hits and misses.
func (c *verdictCache) Get(candidate string) (domain.BlockDecision, bool) {
	if val, ok := c.lru.Get(candidate); ok {
		atomic.AddUint64(&c.hits, 1)
		return val, true
	}
	atomic.AddUint64(&c.misses, 1)
	var zero domain.BlockDecision
	return zero, false
}

// Put stores a verdict by candidate.
func (c *verdictCache) Put(candidate string, d domain.BlockDecision) {
	c.lru.Add(candidate, d)
}

// Len returns the number of entries in the cache.
func (c *verdictCache) Len() int { return c.lru.Len() }

// Purge clears all entries. Evictions are counted via the eviction callback.
func (c *verdictCache) Purge() { c.lru.Purge() }

// Stats returns cumulative hit/miss/eviction counters.
func (c *verdictCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

func (d *disabledCache) Get(string) (domain.BlockDecision, bool) {
	var zero domain.BlockDecision
	return zero, false
}

func (d *disabledCache) Put(string, domain.BlockDecision) {}

func (d *disabledCache) Len() int { return 0 }

func (d *disabledCache) Purge() {}

func (d *disabledCache) Stats() (uint64, uint64, uint64) { return 0, 0, 0 }

var _ blocklist.VerdictCache = (*verdictCache)(nil)
var _ blocklist.VerdictCache = (*disabledCache)(nil)
