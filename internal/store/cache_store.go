package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/model"
)

// CacheStore keeps results as canonical JSON in any byte cache
type CacheStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheStore creates a store over c; ttl 0 uses the cache default
func NewCacheStore(c cache.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

// Save stores res under its id; an existing id is rejected
func (s *CacheStore) Save(ctx context.Context, res *model.FactCheckResult) error {
	data, err := encode(res)
	if err != nil {
		return err
	}

	added, err := s.cache.Add(ctx, cache.Key("result", res.ID), data, s.ttl)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	if !added {
		return fmt.Errorf("save result %s: %w", res.ID, ErrExists)
	}
	return nil
}

// Get returns the result stored under id
func (s *CacheStore) Get(ctx context.Context, id string) (*model.FactCheckResult, error) {
	data, err := s.cache.Get(ctx, cache.Key("result", id))
	if errors.Is(err, cache.ErrMiss) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return decode(data)
}

// Close releases the cache when it holds connections
func (s *CacheStore) Close() error {
	if closer, ok := s.cache.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
