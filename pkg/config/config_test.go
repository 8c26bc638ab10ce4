package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DefaultFallbackModels, cfg.FallbackModels)
	assert.Equal(t, 0.7, cfg.ModelTemperature)
	assert.Equal(t, 1000, cfg.ModelMaxTokens)
	assert.Equal(t, 60*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 0, cfg.CircuitBreakerThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("PORT", "8081")
	t.Setenv("FALLBACK_MODELS", " model-a , ,model-b")
	t.Setenv("UPSTREAM_TIMEOUT", "15s")
	t.Setenv("STORE_BACKEND", "Redis")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, []string{"model-a", "model-b"}, cfg.FallbackModels)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, 30*time.Second, cfg.WorstCaseExplanationTime())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OpenRouterAPIKey: "sk-test",
			FallbackModels:   []string{"model-a"},
			UpstreamTimeout:  time.Second,
			StoreBackend:     "file",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.OpenRouterAPIKey = "  " }, wantErr: "OPENROUTER_API_KEY"},
		{name: "no models", mutate: func(c *Config) { c.FallbackModels = nil }, wantErr: "FALLBACK_MODELS"},
		{name: "zero timeout", mutate: func(c *Config) { c.UpstreamTimeout = 0 }, wantErr: "UPSTREAM_TIMEOUT"},
		{name: "unknown backend", mutate: func(c *Config) { c.StoreBackend = "mongo" }, wantErr: "STORE_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
