package worker

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"golang.org/x/time/rate"
)

// Limiter throttles provider calls, one token bucket per provider host
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter; a non-positive rate disables throttling
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// NewLimiterFromConfig creates a limiter from the rate limiting section
func NewLimiterFromConfig(cfg model.RateLimitConfig) *Limiter {
	return NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize)
}

// Wait blocks until a call to key (a URL or host) is allowed
func (l *Limiter) Wait(ctx context.Context, key string) error {
	host, err := hostKey(key)
	if err != nil {
		return err
	}
	return l.getLimiter(host).Wait(ctx)
}

// Allow checks if a call is allowed without waiting
func (l *Limiter) Allow(key string) bool {
	host, err := hostKey(key)
	if err != nil {
		return false
	}
	return l.getLimiter(host).Allow()
}

func (l *Limiter) getLimiter(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[host]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[host] = limiter

	return limiter
}

// SetHostRate sets a custom rate for one provider host
func (l *Limiter) SetHostRate(host string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// WaitWithDelay waits for clearance and then an additional delay
func (l *Limiter) WaitWithDelay(ctx context.Context, key string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, key); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}

var providerHosts = map[string]string{
	"openai":    "api.openai.com",
	"anthropic": "api.anthropic.com",
	"claude":    "api.anthropic.com",
	"ollama":    "localhost:11434",
}

// ProviderHost returns the host that calls for cfg go to
func ProviderHost(cfg model.LLMConfig) string {
	if cfg.BaseURL != "" {
		if host, err := hostKey(cfg.BaseURL); err == nil && host != "" {
			return host
		}
	}
	if host, ok := providerHosts[strings.ToLower(cfg.Provider)]; ok {
		return host
	}
	return strings.ToLower(cfg.Provider)
}

// hostKey accepts a URL or a bare host
func hostKey(key string) (string, error) {
	if !strings.Contains(key, "://") {
		return strings.ToLower(strings.TrimSpace(key)), nil
	}
	parsed, err := url.Parse(key)
	if err != nil {
		return "", err
	}
	return strings.ToLower(parsed.Host), nil
}
