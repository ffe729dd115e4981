package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Subjects  SubjectsConfig  `mapstructure:"subjects" validate:"required"`
	Events    EventsConfig    `mapstructure:"events" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
}

// SchedulerConfig tunes the task runner.
type SchedulerConfig struct {
	// HostProfile picks the default limits and pool strategy.
	HostProfile string `mapstructure:"host_profile" validate:"required,oneof=native constrained"`

	// PoolStrategy overrides the profile's strategy when set.
	PoolStrategy string `mapstructure:"pool_strategy" validate:"omitempty,oneof=dedicated shared"`

	// Zero keeps the profile default.
	MaxConcurrentOCR         int `mapstructure:"max_concurrent_ocr" validate:"gte=0,lte=64"`
	MaxConcurrentTranslation int `mapstructure:"max_concurrent_translation" validate:"gte=0,lte=64"`
	SharedWorkers            int `mapstructure:"shared_workers" validate:"gte=0,lte=64"`

	TickInterval time.Duration `mapstructure:"tick_interval" validate:"gt=0"`
	StepDelay    time.Duration `mapstructure:"step_delay" validate:"gte=0"`
	RetentionTTL time.Duration `mapstructure:"retention_ttl" validate:"gte=0"`
	MaxRecords   int           `mapstructure:"max_records" validate:"gte=0"`

	// EventBuffer bounds the lifecycle events waiting for the sinks.
	EventBuffer int `mapstructure:"event_buffer" validate:"gte=0"`
}

// SubjectsConfig selects where marker and image records are looked up.
type SubjectsConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory postgres sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required_unless=Driver memory"`
}

// EventsConfig configures the external event sink.
type EventsConfig struct {
	// RedisAddr enables the Redis publisher when set.
	RedisAddr     string `mapstructure:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
	RedisChannel  string `mapstructure:"redis_channel" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret enables bearer authentication on the API when set.
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// GeminiAPIKey enables the gemini translation service when set.
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// CatalogConfig points at an optional YAML file of extra OCR and
// translation services.
type CatalogConfig struct {
	File string `mapstructure:"file" validate:"omitempty,file"`
}
