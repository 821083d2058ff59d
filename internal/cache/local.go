// Package cache implements the two-tier snapshot cache: a bounded in-process
// LRU tier backed by an optional shared Redis tier. Callers only see the
// layered Store; tier failures degrade silently to whatever tier still works.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type localEntry struct {
	blob      []byte
	expiresAt time.Time
}

// Local is the bounded, recency-evicting in-process tier. Each entry carries
// its own TTL; expired entries are treated as absent and dropped on read.
type Local struct {
	entries *lru.Cache[string, localEntry]
}

// NewLocal creates a local tier holding at most maxEntries entries.
func NewLocal(maxEntries int) (*Local, error) {
	c, err := lru.New[string, localEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Local{entries: c}, nil
}

// Get returns the blob for key if present and unexpired.
func (l *Local) Get(_ context.Context, key string) ([]byte, bool) {
	e, ok := l.entries.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		l.entries.Remove(key)
		return nil, false
	}
	return e.blob, true
}

// Put stores blob under key for ttl.
func (l *Local) Put(_ context.Context, key string, blob []byte, ttl time.Duration) {
	l.entries.Add(key, localEntry{blob: blob, expiresAt: time.Now().Add(ttl)})
}

// Remove drops key from the tier.
func (l *Local) Remove(key string) {
	l.entries.Remove(key)
}
