package cache

import (
	"context"
	"time"

	"telecast/internal/metrics"
)

// KeyPrefix namespaces every catalog snapshot key in both tiers.
const KeyPrefix = "telecast:catalog:v1:"

// Layered combines the local tier with an optional shared tier behind one
// get/put contract. Reads check local first and promote shared hits; writes
// go to both. Running without a shared tier is a fully supported mode.
type Layered struct {
	local      *Local
	shared     *Shared // nil when not configured
	defaultTTL time.Duration
}

// NewLayered builds the composite cache. shared may be nil.
func NewLayered(local *Local, shared *Shared, defaultTTL time.Duration) *Layered {
	return &Layered{local: local, shared: shared, defaultTTL: defaultTTL}
}

// Get returns the blob for key, consulting local then shared. A shared hit is
// promoted into the local tier with its remaining TTL and treated as fresh
// even when the local tier had already judged the entry stale.
func (c *Layered) Get(ctx context.Context, key string) ([]byte, bool) {
	key = KeyPrefix + key
	if blob, ok := c.local.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("local").Inc()
		return blob, true
	}
	metrics.CacheMisses.WithLabelValues("local").Inc()

	if c.shared == nil {
		return nil, false
	}
	blob, remaining, ok := c.shared.Get(ctx, key)
	if !ok {
		metrics.CacheMisses.WithLabelValues("shared").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("shared").Inc()
	if remaining <= 0 || remaining > c.defaultTTL {
		remaining = c.defaultTTL
	}
	c.local.Put(ctx, key, blob, remaining)
	return blob, true
}

// Put writes blob to both tiers. Shared-tier failures never surface.
func (c *Layered) Put(ctx context.Context, key string, blob []byte, ttl time.Duration) {
	key = KeyPrefix + key
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.local.Put(ctx, key, blob, ttl)
	if c.shared != nil {
		c.shared.Put(ctx, key, blob, ttl)
	}
}

// Invalidate drops key from the local tier. The shared tier entry is left to
// its own TTL; other processes may still be serving it.
func (c *Layered) Invalidate(key string) {
	c.local.Remove(KeyPrefix + key)
}
