package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Credits  CreditsConfig  `mapstructure:"credits"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
}

// Model providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider     string `mapstructure:"provider" validate:"required,oneof=gemini openai mock"`
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	OpenAIAPIKey string `mapstructure:"openai_api_key" validate:"required_if=Provider openai"`
	// OpenAIBaseURL points the OpenAI provider at a compatible endpoint.
	OpenAIBaseURL string `mapstructure:"openai_base_url" validate:"omitempty,url"`
	// ModelName overrides the provider's default model.
	ModelName          string        `mapstructure:"model_name"`
	PromptTemplatePath string        `mapstructure:"prompt_template_path" validate:"omitempty,file"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	Temperature        float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// StoreConfig selects the session and history backend.
type StoreConfig struct {
	Driver   string `mapstructure:"driver" validate:"required,oneof=memory file postgres redis"`
	FilePath string `mapstructure:"file_path"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// RedisConfig contains the Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// SessionConfig contains the session token settings.
type SessionConfig struct {
	// TokenSecret signs session tokens. The server requires it; the CLI does
	// not issue tokens.
	TokenSecret   string        `mapstructure:"token_secret" validate:"omitempty,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
}

// CreditsConfig controls credit accounting.
type CreditsConfig struct {
	// Enforce refuses generations for sessions with no credits left.
	Enforce bool `mapstructure:"enforce"`
}
