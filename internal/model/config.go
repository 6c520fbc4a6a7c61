package model

import (
	"strings"
	"time"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
)

// Config holds the complete service configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Analysis     AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig    `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Authority    AuthorityConfig    `yaml:"authority" mapstructure:"authority"`
	Export       ExportConfig       `yaml:"export" mapstructure:"export"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// LLMConfig configures the analysis provider
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// AnalysisConfig tunes normalization
type AnalysisConfig struct {
	Settings   Settings         `yaml:"settings" mapstructure:"settings"`
	Vocabulary []VocabularyTerm `yaml:"vocabulary" mapstructure:"vocabulary"`
}

// VocabularyTerm extends the verdict lookup table
type VocabularyTerm struct {
	Phrase  string  `yaml:"phrase" mapstructure:"phrase"`
	Verdict Verdict `yaml:"verdict" mapstructure:"verdict"`
}

// CacheConfig configures the byte cache behind the result store
type CacheConfig struct {
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig selects the result store backend
type StoreConfig struct {
	Backend       string `yaml:"backend" mapstructure:"backend"` // memory, disk, layered, redis, postgres
	RedisAddr     string `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int    `yaml:"redis_db" mapstructure:"redis_db"`
	PostgresDSN   string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	SessionTTL     time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig throttles provider calls
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// AuthorityConfig drives source kind classification
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"` // host -> primary|secondary|other
}

// ExportConfig configures artifact generation
type ExportConfig struct {
	Title string `yaml:"title" mapstructure:"title"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   60,
			MaxTokens: 2000,
		},
		Analysis: AnalysisConfig{
			Settings: DefaultSettings(),
		},
		Cache: CacheConfig{
			Dir:       "~/.factcheck/cache",
			MemoryTTL: 24 * time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Backend: "memory",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:*", "https://*"},
			RequestTimeout: 2 * time.Minute,
			SessionTTL:     30 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"czso.cz",
				"mzcr.cz",
				"europa.eu",
				"who.int",
				"doi.org",
				"nature.com",
				"sciencemag.org",
				"vedavyzkum.cz",
			},
			SecondaryDomains: []string{
				"ceskatelevize.cz",
				"irozhlas.cz",
				"aktualne.cz",
				"seznamzpravy.cz",
				"denik.cz",
				"idnes.cz",
				"osel.cz",
				"demagog.cz",
				"reuters.com",
				"apnews.com",
				"wikipedia.org",
			},
		},
		Export: ExportConfig{
			Title: "Fact-check result",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "", "openai", "anthropic", "claude", "ollama":
	default:
		return apperrors.Configuration("unknown LLM provider: %s (supported: openai, anthropic, ollama)", c.LLM.Provider)
	}
	switch c.Store.Backend {
	case "", "memory", "disk", "layered", "redis", "postgres":
	default:
		return apperrors.Configuration("unknown store backend: %s", c.Store.Backend)
	}
	if c.Store.Backend == "postgres" && c.Store.PostgresDSN == "" {
		return apperrors.Configuration("store.postgres_dsn is required for the postgres backend")
	}
	if c.Store.Backend == "redis" && c.Store.RedisAddr == "" {
		return apperrors.Configuration("store.redis_addr is required for the redis backend")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return apperrors.Configuration("unknown log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return apperrors.Configuration("unknown log format: %s", c.Logging.Format)
	}
	for _, term := range c.Analysis.Vocabulary {
		if !term.Verdict.IsValid() || term.Verdict == VerdictError {
			return apperrors.Configuration("vocabulary phrase %q maps to unknown verdict %q", term.Phrase, term.Verdict)
		}
	}
	if err := c.Analysis.Settings.Validate(); err != nil {
		return apperrors.Configuration("analysis.settings: %v", apperrors.Message(err))
	}
	return nil
}
