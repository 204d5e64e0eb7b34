// Package mem provides an in-memory summary cache for tests and local
// development.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/lexsum/lexsum/pkg/fingerprint"
	"github.com/lexsum/lexsum/pkg/summarycache"
)

type entry struct {
	summary   string
	expiresAt time.Time
}

// Cache implements summarycache.Cache backed by a map.
//
// Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[fingerprint.Token]entry
	ttl     time.Duration

	// Now is the clock used for expiry. Overridable in tests.
	Now func() time.Time
}

var _ summarycache.Cache = (*Cache)(nil)

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = summarycache.DefaultTTL
	}
	return &Cache{
		entries: make(map[fingerprint.Token]entry),
		ttl:     ttl,
		Now:     time.Now,
	}
}

func (c *Cache) Get(ctx context.Context, token fingerprint.Token) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[token]
	c.mu.RUnlock()
	if !ok || c.Now().After(e.expiresAt) {
		return "", false
	}
	return e.summary, true
}

func (c *Cache) Put(ctx context.Context, token fingerprint.Token, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = entry{
		summary:   summary,
		expiresAt: c.Now().Add(c.ttl),
	}
}
