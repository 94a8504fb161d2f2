package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets environment variables for the duration of the test.
// Empty values are treated as unset by viper.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// TestLoadDefaults verifies that Load applies the documented defaults when
// only the required credential is provided.
func TestLoadDefaults(t *testing.T) {
	setupEnv(t, map[string]string{
		"TALES_LLM_API_KEY":      "sk-test-key",
		"TALES_SERVER_PORT":      "",
		"TALES_SERVER_LOG_LEVEL": "",
	})

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4", cfg.LLM.TextModel)
	assert.Equal(t, "dall-e-3", cfg.LLM.ImageModel)
	assert.Equal(t, "1024x1024", cfg.LLM.ImageSize)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 60*time.Second, cfg.LLM.ConnectTimeout)
	assert.Equal(t, 60*time.Second, cfg.LLM.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.LLM.WriteTimeout)
	assert.False(t, cfg.Generation.StrictPageCount)
	assert.Equal(t, 4, cfg.Illustration.Concurrency)
	assert.Equal(t, time.Duration(0), cfg.Illustration.RateInterval)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "tales.stories", cfg.Events.Subject)
}

// TestLoadFromEnv verifies that environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	setupEnv(t, map[string]string{
		"TALES_SERVER_PORT":                  "9090",
		"TALES_SERVER_LOG_LEVEL":             "debug",
		"TALES_LLM_API_KEY":                  "sk-test-key",
		"TALES_LLM_BASE_URL":                 "http://localhost:4010/v1",
		"TALES_LLM_TEMPERATURE":              "0.2",
		"TALES_LLM_READ_TIMEOUT":             "5s",
		"TALES_GENERATION_STRICT_PAGE_COUNT": "true",
		"TALES_ILLUSTRATION_CONCURRENCY":     "1",
		"TALES_ILLUSTRATION_RATE_INTERVAL":   "250ms",
		"TALES_STORE_DRIVER":                 "mongo",
		"TALES_STORE_MONGO_URI":              "mongodb://localhost:27017",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "http://localhost:4010/v1", cfg.LLM.BaseURL)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 5*time.Second, cfg.LLM.ReadTimeout)
	assert.True(t, cfg.Generation.StrictPageCount)
	assert.Equal(t, 1, cfg.Illustration.Concurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.Illustration.RateInterval)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.MongoURI)
	assert.Equal(t, "tales", cfg.Store.MongoDatabase)
}

// TestLoadValidationErrors verifies that invalid combinations are rejected.
func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing_api_key",
			env:  map[string]string{"TALES_LLM_API_KEY": ""},
		},
		{
			name: "invalid_port",
			env: map[string]string{
				"TALES_LLM_API_KEY": "sk-test-key",
				"TALES_SERVER_PORT": "70000",
			},
		},
		{
			name: "invalid_log_level",
			env: map[string]string{
				"TALES_LLM_API_KEY":      "sk-test-key",
				"TALES_SERVER_LOG_LEVEL": "verbose",
			},
		},
		{
			name: "unknown_provider",
			env: map[string]string{
				"TALES_LLM_API_KEY":  "sk-test-key",
				"TALES_LLM_PROVIDER": "anthropic",
			},
		},
		{
			name: "gemini_without_key",
			env: map[string]string{
				"TALES_LLM_API_KEY":  "sk-test-key",
				"TALES_LLM_PROVIDER": "gemini",
			},
		},
		{
			name: "postgres_without_url",
			env: map[string]string{
				"TALES_LLM_API_KEY":  "sk-test-key",
				"TALES_STORE_DRIVER": "postgres",
			},
		},
		{
			name: "zero_concurrency",
			env: map[string]string{
				"TALES_LLM_API_KEY":              "sk-test-key",
				"TALES_ILLUSTRATION_CONCURRENCY": "0",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setupEnv(t, tc.env)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}
