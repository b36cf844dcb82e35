package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	LLM      LLMConfig      `koanf:"llm"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Scoring  ScoringConfig  `koanf:"scoring"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LLMConfig points at a Cloudflare Workers AI text-generation model.
type LLMConfig struct {
	BaseURL     string        `koanf:"base_url"`
	AccountID   string        `koanf:"account_id"`
	APIToken    string        `koanf:"api_token"`
	Model       string        `koanf:"model"`
	Timeout     time.Duration `koanf:"timeout"`
	MaxTokens   int           `koanf:"max_tokens"`
	Temperature float64       `koanf:"temperature"`

	// circuit breaker
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `koanf:"breaker_open_timeout"`
}

// Enabled reports whether credentials are present. Without them every
// request is served from the fallback dataset.
func (c LLMConfig) Enabled() bool {
	return c.AccountID != "" && c.APIToken != ""
}

func (c LLMConfig) Endpoint() string {
	return fmt.Sprintf("%s/accounts/%s/ai/run/%s", strings.TrimRight(c.BaseURL, "/"), c.AccountID, c.Model)
}

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

type CatalogConfig struct {
	Source   string `koanf:"source"`
	DataPath string `koanf:"data_path"`
}

type ScoringConfig struct {
	LiveStrategy    string `koanf:"live_strategy"`
	CatalogStrategy string `koanf:"catalog_strategy"`
}

type DatabaseConfig struct {
	URL      string `koanf:"url"`
	PoolSize int    `koanf:"pool_size"`
}

type RedisConfig struct {
	URL string `koanf:"url"`
}

type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

var knownStrategies = []string{"weighted_points", "feature_ratio"}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RequestTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server request and shutdown timeouts must be positive"))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout must be positive"))
	}
	if c.LLM.MaxTokens <= 0 {
		errs = append(errs, errors.New("llm.max_tokens must be positive"))
	}
	if c.LLM.BreakerFailureRatio <= 0 || c.LLM.BreakerFailureRatio > 1 {
		errs = append(errs, errors.New("llm.breaker_failure_ratio must be in (0,1]"))
	}

	switch c.Catalog.Source {
	case CatalogSourceFile:
	case CatalogSourcePostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required when catalog.source is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown catalog.source %q", c.Catalog.Source))
	}

	for _, s := range []string{c.Scoring.LiveStrategy, c.Scoring.CatalogStrategy} {
		if !slices.Contains(knownStrategies, s) {
			errs = append(errs, fmt.Errorf("unknown scoring strategy %q", s))
		}
	}

	if !c.Security.RateLimitDisabled && (c.Security.RateLimitRequests <= 0 || c.Security.RateLimitWindow <= 0) {
		errs = append(errs, errors.New("rate limit requests and window must be positive"))
	}

	return errors.Join(errs...)
}
