package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements in-memory TTL caching
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), nil
	}
	return nil, ErrMiss
}

// Set stores a value in the cache with the given TTL (0 means the default TTL)
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttlOrDefault(ttl))
	return nil
}

// Add stores a value only if the key is not present
func (c *MemoryCache) Add(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if err := c.cache.Add(key, value, ttlOrDefault(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear(_ context.Context) error {
	c.cache.Flush()
	return nil
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return gocache.DefaultExpiration
	}
	return ttl
}
