package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"abkit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// AnalysisConfig holds the defaults applied when a request omits alpha or power
type AnalysisConfig struct {
	DefaultAlpha float64
	DefaultPower float64
}

// Addr is the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Analysis: *loadAnalysisConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		DefaultAlpha: getEnvFloatOrDefault("DEFAULT_ALPHA", 0.05),
		DefaultPower: getEnvFloatOrDefault("DEFAULT_POWER", 0.80),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("PORT must be numeric, got %q", config.Server.Port))
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", config.Server.GinMode))
	}
	if a := config.Analysis.DefaultAlpha; a <= 0 || a >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("DEFAULT_ALPHA must be in (0, 1), got %v", a))
	}
	if p := config.Analysis.DefaultPower; p <= 0 || p >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("DEFAULT_POWER must be in (0, 1), got %v", p))
	}
	if config.Server.ShutdownTimeout <= 0 {
		return errors.ConfigInvalid("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
