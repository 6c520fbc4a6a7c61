package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/cache"
	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/model"
)

var (
	// ErrNotFound is wrapped by Get when no result has the requested id
	ErrNotFound = errors.New("result not found")

	// ErrExists is wrapped by Save when the id is already taken; results are never overwritten
	ErrExists = errors.New("result already stored")
)

// Store keeps assembled results so they can be fetched by id
type Store interface {
	Save(ctx context.Context, res *model.FactCheckResult) error
	Get(ctx context.Context, id string) (*model.FactCheckResult, error)
	Close() error
}

func notFound(id string) error {
	return apperrors.Wrap(apperrors.CodeNotFound, ErrNotFound, fmt.Sprintf("result %s not found", id))
}

func encode(res *model.FactCheckResult) ([]byte, error) {
	if res == nil || res.ID == "" {
		return nil, apperrors.InvalidInput("result has no id")
	}
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*model.FactCheckResult, error) {
	var res model.FactCheckResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &res, nil
}

// Open creates the store selected by cfg.Store.Backend
func Open(ctx context.Context, cfg *model.Config) (Store, error) {
	dir := expandHome(cfg.Cache.Dir)

	switch cfg.Store.Backend {
	case "", "memory":
		return NewCacheStore(cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute), cfg.Cache.MemoryTTL), nil

	case "disk":
		return NewCacheStore(cache.NewDiskCache(filepath.Join(dir, "results"), cfg.Cache.DiskTTL), cfg.Cache.DiskTTL), nil

	case "layered":
		return NewCacheStore(cache.NewLayeredCache(cfg.Cache.MemoryTTL, filepath.Join(dir, "results"), cfg.Cache.DiskTTL), cfg.Cache.DiskTTL), nil

	case "redis":
		c, err := cache.NewRedisCache(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB, cfg.Cache.DiskTTL)
		if err != nil {
			return nil, apperrors.Network(err, "connect result store")
		}
		return NewCacheStore(c, cfg.Cache.DiskTTL), nil

	case "postgres":
		return OpenPostgres(ctx, cfg.Store.PostgresDSN)

	default:
		return nil, apperrors.Configuration("unknown store backend: %s", cfg.Store.Backend)
	}
}

// expandHome resolves a leading ~ in configured paths
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
