// Package store holds the verification result cache backends.
package store

import (
	"context"
	"sync"
	"time"

	"tradeverify/internal/verification"
	"tradeverify/pkg/platform/sentinel"
)

type cachedResult struct {
	result   verification.Result
	storedAt time.Time
}

// InMemoryCache keeps results in process with TTL expiration.
type InMemoryCache struct {
	mu       sync.RWMutex
	results  map[string]cachedResult
	cacheTTL time.Duration
	now      func() time.Time
}

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
func NewInMemoryCache(cacheTTL time.Duration) *InMemoryCache {
	return &InMemoryCache{
		results:  make(map[string]cachedResult),
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Get returns sentinel.ErrNotFound when the key is absent or expired.
func (c *InMemoryCache) Get(_ context.Context, key string) (verification.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cached, ok := c.results[key]; ok {
		if c.now().Sub(cached.storedAt) < c.cacheTTL {
			return cached.result, nil
		}
	}
	return verification.Result{}, sentinel.ErrNotFound
}

func (c *InMemoryCache) Set(_ context.Context, key string, result verification.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = cachedResult{result: result, storedAt: c.now()}
	c.evictExpiredLocked()
	return nil
}

// evictExpiredLocked drops expired entries. Callers hold mu.
func (c *InMemoryCache) evictExpiredLocked() {
	now := c.now()
	for k, v := range c.results {
		if now.Sub(v.storedAt) >= c.cacheTTL {
			delete(c.results, k)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
