// Package config provides configuration management for the trial-pts pipeline.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline" validate:"required"`
	Acquisition AcquisitionConfig `mapstructure:"acquisition" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Health      HealthConfig      `mapstructure:"health" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// PipelineConfig represents training and scoring configuration
type PipelineConfig struct {
	TrainRatio      float64 `mapstructure:"train_ratio" validate:"required,gt=0,lt=1"`
	Seed            int64   `mapstructure:"seed"`
	Rounds          int     `mapstructure:"rounds" validate:"required,gt=0"`
	LearningRate    float64 `mapstructure:"learning_rate" validate:"required,gt=0,lte=1"`
	MaxDepth        int     `mapstructure:"max_depth" validate:"required,gt=0"`
	MinSamplesLeaf  int     `mapstructure:"min_samples_leaf" validate:"gte=0"`
	Lambda          float64 `mapstructure:"lambda" validate:"gte=0"`
	Patience        int     `mapstructure:"patience" validate:"required,gt=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize    int     `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// AcquisitionConfig represents registry acquisition configuration
type AcquisitionConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	UserAgent      string  `mapstructure:"user_agent" validate:"required"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	DelayMillis    int     `mapstructure:"delay_millis" validate:"required,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	SyncSchedule   string  `mapstructure:"sync_schedule"`
}

// Timeout returns the per-request timeout.
func (c *AcquisitionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Delay returns the fixed inter-request delay.
func (c *AcquisitionConfig) Delay() time.Duration {
	return time.Duration(c.DelayMillis) * time.Millisecond
}

// DatabaseConfig represents optional database connection configuration
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// HealthConfig represents the health endpoint configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
