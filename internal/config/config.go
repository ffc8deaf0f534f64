// Package config loads expensed configuration from an optional YAML file with
// environment variable overrides. The environment wins; it is read once at
// startup and never re-read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all expensed configuration.
type Config struct {
	// Server settings
	Server ServerConfig `yaml:"server"`

	// SQLite storage
	Storage StorageConfig `yaml:"storage"`

	// JWT auth
	Auth AuthConfig `yaml:"auth"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Port is the TCP port the server binds on 0.0.0.0. Overridden by the
	// PORT environment variable, which the container runtime supplies.
	Port string `yaml:"port"`

	// ShutdownTimeout bounds graceful shutdown, e.g. "5s".
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// StorageConfig configures the SQLite database.
type StorageConfig struct {
	// DatabasePath is the SQLite file path. ":memory:" is valid for tests.
	DatabasePath string `yaml:"database_path"`
}

// AuthConfig configures JWT verification on mutating routes.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	SecretKey string `yaml:"secret_key"`
	// TokenTTL is the lifetime of minted tokens, e.g. "24h".
	TokenTTL string `yaml:"token_ttl"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the development defaults. In a container PORT and
// EXPENSED_DB are expected to come from the environment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: "5s",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join("data", "expensed.db"),
		},
		Auth: AuthConfig{
			Enabled:   false,
			SecretKey: "dev-secret-change-me",
			TokenTTL:  "24h",
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults;
// environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// Listen port from the container runtime
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}

	// Database path
	if path := os.Getenv("EXPENSED_DB"); path != "" {
		c.Storage.DatabasePath = path
	}

	// JWT signing secret
	if key := os.Getenv("JWT_SECRET_KEY"); key != "" {
		c.Auth.SecretKey = key
	}

	if level := os.Getenv("EXPENSED_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate rejects configuration the server could not start with. The port is
// checked here so a bad PORT fails before any listener is opened.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Server.Port, err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range", port)
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage database_path is required")
	}
	if c.Auth.Enabled && c.Auth.SecretKey == "" {
		return fmt.Errorf("auth enabled but no secret_key configured")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Server.Port
}
