package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache implements a multi-layer cache (memory + disk)
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get retrieves a value from the cache (checks memory first, then disk)
func (c *LayeredCache) Get(ctx context.Context, key string) ([]byte, error) {
	// Check memory cache first
	if val, err := c.memory.Get(ctx, key); err == nil {
		return val, nil
	}

	val, err := c.disk.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// Promote to memory cache
	_ = c.memory.Set(ctx, key, val, 0)
	return val, nil
}

// Set stores a value in both caches
func (c *LayeredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(ctx, key, value, ttl)
}

// Add stores a value only if the durable layer does not hold it yet
func (c *LayeredCache) Add(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if _, err := c.memory.Get(ctx, key); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrMiss) {
		return false, err
	}

	added, err := c.disk.Add(ctx, key, value, ttl)
	if err != nil || !added {
		return added, err
	}
	return true, c.memory.Set(ctx, key, value, ttl)
}

// Delete removes a value from both caches
func (c *LayeredCache) Delete(ctx context.Context, key string) error {
	_ = c.memory.Delete(ctx, key)
	return c.disk.Delete(ctx, key)
}

// Clear removes all values from both caches
func (c *LayeredCache) Clear(ctx context.Context) error {
	_ = c.memory.Clear(ctx)
	return c.disk.Clear(ctx)
}
