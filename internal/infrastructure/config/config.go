// Package config loads server configuration from environment variables and
// model parameter bundles from YAML files.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the HTM core API.
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Logging LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// APIConfig contains API-specific configuration.
type APIConfig struct {
	Version        string
	MaxRequestSize int64
	EnableCORS     bool
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load assembles the configuration from the process environment. Every
// setting has a default; variables that are unset or fail to parse keep it.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            env("SERVER_HOST", "localhost", asString),
			Port:            env("SERVER_PORT", "8080", asString),
			ReadTimeout:     env("SERVER_READ_TIMEOUT", 30*time.Second, time.ParseDuration),
			WriteTimeout:    env("SERVER_WRITE_TIMEOUT", 30*time.Second, time.ParseDuration),
			ShutdownTimeout: env("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second, time.ParseDuration),
		},
		API: APIConfig{
			Version:        env("API_VERSION", "v1", asString),
			MaxRequestSize: env("API_MAX_REQUEST_SIZE", int64(10*1024*1024), asInt64),
			EnableCORS:     env("API_ENABLE_CORS", true, strconv.ParseBool),
		},
		Logging: LoggingConfig{
			Level:  env("LOG_LEVEL", "info", asString),
			Format: env("LOG_FORMAT", "json", asString),
		},
	}
}

// Address returns the host:port pair the server binds to.
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// env reads one environment variable through parse. An empty variable or a
// parse failure falls back to the default, so a typoed value degrades to
// known-good settings instead of crashing startup.
func env[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := parse(raw)
	if err != nil {
		return fallback
	}
	return value
}

func asString(raw string) (string, error) {
	return raw, nil
}

func asInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
