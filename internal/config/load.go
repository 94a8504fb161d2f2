package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. TALES_LLM_API_KEY for llm.api_key.
const EnvPrefix = "TALES"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/tales-api")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// setDefaults registers every key so that AutomaticEnv can resolve it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "5m")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.text_model", "gpt-4")
	v.SetDefault("llm.image_model", "dall-e-3")
	v.SetDefault("llm.image_size", "1024x1024")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.connect_timeout", "60s")
	v.SetDefault("llm.read_timeout", "60s")
	v.SetDefault("llm.write_timeout", "60s")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", "gemini-2.0-flash")

	v.SetDefault("generation.strict_page_count", false)

	v.SetDefault("illustration.concurrency", 4)
	v.SetDefault("illustration.rate_interval", "0s")

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.postgres_url", "")
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.mongo_database", "tales")

	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject", "tales.stories")
}
