package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	LLM          LLMConfig          `mapstructure:"llm" validate:"required"`
	Generation   GenerationConfig   `mapstructure:"generation"`
	Illustration IllustrationConfig `mapstructure:"illustration" validate:"required"`
	Store        StoreConfig        `mapstructure:"store" validate:"required"`
	Events       EventsConfig       `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel     string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
}

// LLMConfig contains the settings for the text and image completion services.
//
// APIKey is the bearer credential for the OpenAI-compatible endpoint. It is
// required even when Provider is "gemini" because illustrations are always
// produced by the image endpoint.
type LLMConfig struct {
	Provider       string        `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	APIKey         string        `mapstructure:"api_key" validate:"required"`
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	TextModel      string        `mapstructure:"text_model" validate:"required"`
	ImageModel     string        `mapstructure:"image_model" validate:"required"`
	ImageSize      string        `mapstructure:"image_size" validate:"required"`
	Temperature    float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gt=0"`

	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	GeminiModel  string `mapstructure:"gemini_model"`
}

// GenerationConfig controls how model output is interpreted.
type GenerationConfig struct {
	// StrictPageCount rejects stories outside the 5-8 page range instead of
	// only logging a warning.
	StrictPageCount bool `mapstructure:"strict_page_count"`
}

// IllustrationConfig controls the image fan-out.
type IllustrationConfig struct {
	Concurrency  int           `mapstructure:"concurrency" validate:"required,gte=1,lte=16"`
	RateInterval time.Duration `mapstructure:"rate_interval" validate:"gte=0"`
}

// StoreConfig selects and configures the story persistence backend.
type StoreConfig struct {
	Driver        string `mapstructure:"driver" validate:"required,oneof=memory postgres mongo"`
	PostgresURL   string `mapstructure:"postgres_url" validate:"required_if=Driver postgres"`
	MongoURI      string `mapstructure:"mongo_uri" validate:"required_if=Driver mongo"`
	MongoDatabase string `mapstructure:"mongo_database" validate:"required_if=Driver mongo"`
}

// EventsConfig configures publication of story events. An empty NATSURL
// keeps events in process.
type EventsConfig struct {
	NATSURL string `mapstructure:"nats_url"`
	Subject string `mapstructure:"subject" validate:"required_with=NATSURL"`
}
