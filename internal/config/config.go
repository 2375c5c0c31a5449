// Package config loads service configuration from environment variables,
// with an optional YAML file overriding scoring weights and thresholds.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

// Config is the full service configuration.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string        `env:"DATABASE_URL"`
	RedisAddr   string        `env:"REDIS_ADDR"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	AIBaseURL       string        `env:"AI_BASE_URL"`
	AIAPIKey        string        `env:"AI_API_KEY"`
	EmbeddingsModel string        `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	ChatModel       string        `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	AITimeout       time.Duration `env:"AI_TIMEOUT" envDefault:"20s"`
	AIMaxRetries    int           `env:"AI_MAX_RETRIES" envDefault:"3"`

	EvaluateTimeout time.Duration `env:"EVALUATE_TIMEOUT" envDefault:"30s"`
	WorkerCount     int           `env:"WORKER_COUNT" envDefault:"0"`
	MaxUploadMB     int           `env:"MAX_UPLOAD_MB" envDefault:"10"`

	RateLimitPerMin    int      `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	WeightsFile string `env:"WEIGHTS_FILE"`

	Weights    domain.ScoringWeights `env:"-"`
	Thresholds domain.Thresholds     `env:"-"`
}

type weightsFile struct {
	Weights    *domain.ScoringWeights `yaml:"weights"`
	Thresholds *domain.Thresholds     `yaml:"thresholds"`
}

// Load parses the environment, applies the weights file when configured and
// validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.Weights = domain.DefaultWeights()
	cfg.Thresholds = domain.DefaultThresholds()

	if cfg.WeightsFile != "" {
		b, err := os.ReadFile(cfg.WeightsFile)
		if err != nil {
			return Config{}, fmt.Errorf("config: read weights file: %w", err)
		}
		var wf weightsFile
		if err := yaml.Unmarshal(b, &wf); err != nil {
			return Config{}, fmt.Errorf("config: parse weights file: %w", err)
		}
		if wf.Weights != nil {
			cfg.Weights = *wf.Weights
		}
		if wf.Thresholds != nil {
			cfg.Thresholds = *wf.Thresholds
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("config: max upload must be positive")
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = runtime.NumCPU()
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !(c.Thresholds.High > c.Thresholds.Medium && c.Thresholds.Medium > c.Thresholds.Low) {
		return fmt.Errorf("config: thresholds must be strictly decreasing")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "dev" || env == "development" || env == "local"
}
