package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Rate    RateConfig    `mapstructure:"rate_limit"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds USAspending API connection details
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// RetryConfig contains retry and backoff settings
type RetryConfig struct {
	MaxRetries            int           `mapstructure:"max_retries"`
	BaseDelay             time.Duration `mapstructure:"base_delay"`
	BackoffFactor         float64       `mapstructure:"backoff_factor"`
	SessionResetThreshold int           `mapstructure:"session_reset_threshold"`
}

// RateConfig contains client-side rate limiting settings
type RateConfig struct {
	MaxCalls int           `mapstructure:"max_calls"`
	Period   time.Duration `mapstructure:"period"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
