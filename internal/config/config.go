// Package config loads server configuration from an optional config file
// and SALESCAST_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates all configuration settings for the server.
type Config struct {
	// Environment indicates the running environment (e.g., "development", "production").
	Environment string `mapstructure:"environment"`
	// LogLevel sets the global logging verbosity.
	LogLevel string `mapstructure:"log_level"`
	// Server holds configuration for the HTTP server.
	Server ServerConfig `mapstructure:"server"`
}

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	// Port is the TCP port the server listens on.
	Port int `mapstructure:"port"`
	// AllowedOrigins is a list of CORS allowed origins.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ShutdownTimeout bounds how long a graceful shutdown may take.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads configuration from ./config.yaml when present, with
// environment variables taking precedence and defaults below both.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SALESCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file, %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config, %w", err)
	}
	return &cfg, nil
}
