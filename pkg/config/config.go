package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultFallbackModels is the candidate order used when FALLBACK_MODELS is unset.
var DefaultFallbackModels = []string{
	"meta-llama/llama-4-maverick:free",
	"moonshotai/kimi-vl-a3b-thinking:free",
	"mistralai/mistral-small-3:free",
}

// ErrMissingAPIKey is returned by Validate when no upstream credential is configured.
var ErrMissingAPIKey = errors.New("OPENROUTER_API_KEY is not set; add it to the environment or to a .env file")

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Completion provider
	OpenRouterAPIKey string        `mapstructure:"OPENROUTER_API_KEY"`
	OpenRouterAPIURL string        `mapstructure:"OPENROUTER_API_URL"`
	FallbackModels   []string      `mapstructure:"-"`
	ModelTemperature float64       `mapstructure:"MODEL_TEMPERATURE"`
	ModelMaxTokens   int           `mapstructure:"MODEL_MAX_TOKENS"`
	UpstreamTimeout  time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	// Circuit breaker per candidate model; a threshold of 0 disables it
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	CircuitBreakerTimeout   time.Duration `mapstructure:"CIRCUIT_BREAKER_TIMEOUT"`

	// Persistence
	StoreBackend   string `mapstructure:"STORE_BACKEND"` // "file", "redis", "sqlite", "postgres"
	PredictionsDir string `mapstructure:"PREDICTIONS_DIR"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	HistoryLimit   int    `mapstructure:"HISTORY_LIMIT"`
}

// LoadConfig reads .env (if present) and the process environment.
// It does not validate; call Validate before using the result.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("OPENROUTER_API_KEY", "")
	v.SetDefault("OPENROUTER_API_URL", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("FALLBACK_MODELS", strings.Join(DefaultFallbackModels, ","))
	v.SetDefault("MODEL_TEMPERATURE", 0.7)
	v.SetDefault("MODEL_MAX_TOKENS", 1000)
	v.SetDefault("UPSTREAM_TIMEOUT", "60s")
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 0)
	v.SetDefault("CIRCUIT_BREAKER_TIMEOUT", "30s")
	v.SetDefault("STORE_BACKEND", "file")
	v.SetDefault("PREDICTIONS_DIR", "predictions")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("DATABASE_URL", "predictions.db")
	v.SetDefault("HISTORY_LIMIT", 10)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.FallbackModels = splitList(v.GetString("FALLBACK_MODELS"))
	config.StoreBackend = strings.ToLower(strings.TrimSpace(config.StoreBackend))

	return &config, nil
}

// Validate fails fast on configuration the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenRouterAPIKey) == "" {
		return ErrMissingAPIKey
	}
	if len(c.FallbackModels) == 0 {
		return errors.New("FALLBACK_MODELS must list at least one model")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	switch c.StoreBackend {
	case "file", "redis", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// WorstCaseExplanationTime bounds how long one explanation request can block.
func (c *Config) WorstCaseExplanationTime() time.Duration {
	return c.UpstreamTimeout * time.Duration(len(c.FallbackModels))
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
