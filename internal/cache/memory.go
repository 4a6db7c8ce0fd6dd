package cache

import (
	"context"
	"sync"
	"time"

	"github.com/example/rehearsal-scheduler/internal/reconcile"
)

// MemoryPredictionCache stores recently computed roster predictions in
// process memory. Entries expire after a TTL so window edits that slip past
// an invalidation never go stale for long.
type MemoryPredictionCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]memoryEntry
}

type memoryEntry struct {
	predictions map[string]reconcile.Prediction
	expiresAt   time.Time
}

// NewMemoryPredictionCache constructs an in-process cache. Zero values fall
// back to a 30 second TTL and 128 entries.
func NewMemoryPredictionCache(ttl time.Duration, maxEntries int, now func() time.Time) *MemoryPredictionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryPredictionCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
	}
}

// Get returns the cached predictions for a key, if present and unexpired.
func (c *MemoryPredictionCache) Get(ctx context.Context, key string) (map[string]reconcile.Prediction, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return clonePredictions(entry.predictions), true
}

// Store records predictions under a key.
func (c *MemoryPredictionCache) Store(ctx context.Context, key string, predictions map[string]reconcile.Prediction) {
	if c == nil {
		return
	}
	cloned := clonePredictions(predictions)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = memoryEntry{predictions: cloned, expiresAt: expiry}
}

// Invalidate drops every cached entry.
func (c *MemoryPredictionCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
}

func (c *MemoryPredictionCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryPredictionCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func clonePredictions(predictions map[string]reconcile.Prediction) map[string]reconcile.Prediction {
	if len(predictions) == 0 {
		return nil
	}
	out := make(map[string]reconcile.Prediction, len(predictions))
	for userID, prediction := range predictions {
		out[userID] = prediction
	}
	return out
}
