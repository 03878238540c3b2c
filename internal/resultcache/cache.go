// Package resultcache is a concurrent-safe TTL+LRU cache for analysis
// results with singleflight de-duplication: at most one computation runs per
// fingerprint, and every concurrent caller shares its outcome.
package resultcache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/talentlens/resume-cli/internal/model"
)

// Cache caches AnalysisResults keyed by document fingerprint. Compute
// failures are never stored, so a later request retries instead of seeing a
// poisoned entry.
type Cache struct {
	mu         sync.Mutex
	entries    map[model.Fingerprint]*entry
	order      []model.Fingerprint // LRU order: front=oldest, back=newest
	maxEntries int
	ttl        time.Duration

	flight singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	result    *model.AnalysisResult
	createdAt time.Time
}

// Stats is a snapshot of cache performance counters.
type Stats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// New creates a Cache with the given capacity and TTL.
func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		entries:    make(map[model.Fingerprint]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// GetOrCompute returns the cached result for key, or runs compute exactly
// once across all concurrent callers of the same key. A caller whose ctx
// expires while waiting gets the ctx error; the shared computation keeps
// running for the remaining waiters and its result is still cached.
func (c *Cache) GetOrCompute(ctx context.Context, key model.Fingerprint, compute func(context.Context) (*model.AnalysisResult, error)) (*model.AnalysisResult, error) {
	if r := c.get(key); r != nil {
		c.hits.Add(1)
		return r, nil
	}

	ch := c.flight.DoChan(string(key), func() (any, error) {
		// Re-check under the flight: a just-finished computation may have
		// populated the entry between the lookup above and this call.
		if r := c.get(key); r != nil {
			c.hits.Add(1)
			return r, nil
		}
		// Only the caller that actually computes counts a miss; callers
		// joining the flight share its outcome without skewing the rate.
		c.misses.Add(1)

		// The computation must not die with the first waiter, so it runs
		// under its own context. Request-level deadlines still apply to the
		// wait below.
		computeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.ttl)
		defer cancel()

		r, err := compute(computeCtx)
		if err != nil {
			return nil, eris.Wrap(err, "resultcache: compute")
		}
		c.put(key, r)
		return r, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			zap.L().Debug("resultcache: shared in-flight result",
				zap.String("fingerprint", shortKey(key)),
			)
		}
		return res.Val.(*model.AnalysisResult), nil
	case <-ctx.Done():
		// Abandon the wait without canceling the shared computation.
		return nil, eris.Wrap(ctx.Err(), "resultcache: wait for computation")
	}
}

// Get returns the cached result or nil, counting the access.
func (c *Cache) Get(key model.Fingerprint) *model.AnalysisResult {
	r := c.get(key)
	if r != nil {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return r
}

// get looks up an entry, lazily expiring by TTL and refreshing LRU order.
func (c *Cache) get(key model.Fingerprint) *model.AnalysisResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if time.Since(e.createdAt) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil
	}

	c.removeFromOrder(key)
	c.order = append(c.order, key)
	return e.result
}

// put stores a result, evicting the least recently used entries at capacity.
func (c *Cache) put(key model.Fingerprint, r *model.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &entry{result: r, createdAt: time.Now()}
		c.removeFromOrder(key)
		c.order = append(c.order, key)
		return
	}

	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &entry{result: r, createdAt: time.Now()}
	c.order = append(c.order, key)
}

// Stats returns cache performance statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := len(c.entries)
	maxEntries := c.maxEntries
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Entries:    entries,
		MaxEntries: maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
	}
}

// removeFromOrder removes a key from the LRU order slice.
func (c *Cache) removeFromOrder(key model.Fingerprint) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func shortKey(key model.Fingerprint) string {
	if len(key) > 12 {
		return string(key[:12])
	}
	return string(key)
}
