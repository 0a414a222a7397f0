package orchestrator

import (
	"sync"
	"time"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
)

type cacheEntry struct {
	result  domain.SimulationResult
	expires time.Time
}

// resultCache holds converged results keyed by request fingerprint.
// Entries expire after a fixed TTL and are dropped lazily on lookup.
type resultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *resultCache) Get(key string) (domain.SimulationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return domain.SimulationResult{}, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return domain.SimulationResult{}, false
	}
	return e.result, true
}

func (c *resultCache) Set(key string, result domain.SimulationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, expires: c.now().Add(c.ttl)}
}

func (c *resultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
