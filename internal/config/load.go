package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "STOREBOOST"

var defaults = map[string]any{
	"server.port":              8080,
	"server.log_level":         "info",
	"server.shutdown_timeout":  "15s",
	"server.read_timeout":      "30s",
	"server.write_timeout":     "120s",
	"llm.provider":             ProviderGemini,
	"llm.gemini_api_key":       "",
	"llm.openai_api_key":       "",
	"llm.openai_base_url":      "",
	"llm.model_name":           "",
	"llm.prompt_template_path": "",
	"llm.request_timeout":      "90s",
	"llm.temperature":          0.7,
	"store.driver":             DriverMemory,
	"store.file_path":          "storeboost.json",
	"database.url":             "",
	"redis.addr":               "",
	"redis.password":           "",
	"redis.db":                 0,
	"session.token_secret":     "",
	"session.token_lifetime":   "24h",
	"credits.enforce":          true,
}

// Load reads configuration from config.yaml in the working directory (if
// present) and STOREBOOST_ environment variables. Environment variables take
// precedence over values from the file.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the working directory for config.yaml and tolerates its absence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key := range defaults {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints and the settings each store driver needs.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(validateStoreBackend, Config{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func validateStoreBackend(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	switch cfg.Store.Driver {
	case DriverFile:
		if cfg.Store.FilePath == "" {
			sl.ReportError(cfg.Store.FilePath, "Store.FilePath", "FilePath", "required_for_file", "")
		}
	case DriverPostgres:
		if cfg.Database.URL == "" {
			sl.ReportError(cfg.Database.URL, "Database.URL", "URL", "required_for_postgres", "")
		}
	case DriverRedis:
		if cfg.Redis.Addr == "" {
			sl.ReportError(cfg.Redis.Addr, "Redis.Addr", "Addr", "required_for_redis", "")
		}
	}
}
