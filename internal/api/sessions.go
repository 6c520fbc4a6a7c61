package api

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/present"
	"github.com/rs/zerolog"
)

const (
	sessionHeader     = "X-Session-ID"
	maxSessionIDLen   = 128
	defaultSessionTTL = 30 * time.Minute
)

// sessionRegistry holds one Presentation Renderer per client session; idle sessions expire
type sessionRegistry struct {
	cache   *gocache.Cache
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func newSessionRegistry(ttl time.Duration, logger *zerolog.Logger, m *metrics.Metrics) *sessionRegistry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionRegistry{
		cache:   gocache.New(ttl, ttl/2),
		logger:  logger,
		metrics: m,
	}
}

func (s *sessionRegistry) get(sid string) (*present.Renderer, bool) {
	v, ok := s.cache.Get(sid)
	if !ok {
		return nil, false
	}
	r, ok := v.(*present.Renderer)
	return r, ok
}

// open returns the session's renderer, creating it on first use, and refreshes its expiry
func (s *sessionRegistry) open(sid string) *present.Renderer {
	if r, ok := s.get(sid); ok {
		s.cache.SetDefault(sid, r)
		return r
	}

	logger := s.logger.With().Str("session", sid).Logger()
	r := present.NewRenderer(&logger, s.metrics)
	if err := s.cache.Add(sid, r, gocache.DefaultExpiration); err != nil {
		// Created concurrently
		if existing, ok := s.get(sid); ok {
			return existing
		}
	}
	return r
}

func validSessionID(sid string) bool {
	if sid == "" || len(sid) > maxSessionIDLen {
		return false
	}
	for _, c := range sid {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
