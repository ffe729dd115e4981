package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. BUNNY_SERVER_PORT.
const EnvPrefix = "BUNNY"

// Load reads configuration from an optional bunny.yaml in the working
// directory and from environment variables.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from the given file, if any, and from
// environment variables. Environment variables take precedence over values
// from the file. Returns a populated Config or an error if loading or
// validation fails.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("bunny")
		v.SetConfigType("yaml")
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

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("scheduler.host_profile", "native")
	v.SetDefault("scheduler.pool_strategy", "")
	v.SetDefault("scheduler.max_concurrent_ocr", 0)
	v.SetDefault("scheduler.max_concurrent_translation", 0)
	v.SetDefault("scheduler.shared_workers", 0)
	v.SetDefault("scheduler.tick_interval", "100ms")
	v.SetDefault("scheduler.step_delay", "1s")
	v.SetDefault("scheduler.retention_ttl", "0s")
	v.SetDefault("scheduler.max_records", 0)
	v.SetDefault("scheduler.event_buffer", 1024)

	v.SetDefault("subjects.driver", "memory")
	v.SetDefault("subjects.dsn", "")

	v.SetDefault("events.redis_addr", "")
	v.SetDefault("events.redis_password", "")
	v.SetDefault("events.redis_db", 0)
	v.SetDefault("events.redis_channel", "bunny:events")

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("catalog.file", "")
}
