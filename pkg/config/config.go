package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/inkwell-press/console/pkg/observability"
	"github.com/inkwell-press/console/pkg/session"
)

// Config holds all console configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Backend API configuration
	Backend BackendConfig

	// Session configuration
	Session SessionConfig

	// Route policy configuration
	Routes RoutesConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// BackendConfig holds connection settings for the upstream API
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// SessionConfig holds session lifecycle settings
type SessionConfig struct {
	RenewalInterval time.Duration
}

// RoutesConfig holds route policy settings
type RoutesConfig struct {
	// TablePath points at an optional YAML route table. Empty means the
	// built-in defaults.
	TablePath string
	// Watch reloads the table when the file changes.
	Watch bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
	TracingEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Backend:       loadBackendConfig(),
		Session:       loadSessionConfig(),
		Routes:        loadRoutesConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("CONSOLE_HOST", "127.0.0.1"),
		Port:            getEnv("CONSOLE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("CONSOLE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("CONSOLE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("CONSOLE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("CONSOLE_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// loadBackendConfig loads backend API configuration from environment
func loadBackendConfig() BackendConfig {
	return BackendConfig{
		URL:     getEnv("CONSOLE_BACKEND_URL", "http://localhost:3000"),
		Timeout: getEnvDuration("CONSOLE_BACKEND_TIMEOUT", 30*time.Second),
	}
}

// loadSessionConfig loads session configuration from environment
func loadSessionConfig() SessionConfig {
	return SessionConfig{
		RenewalInterval: getEnvDuration("CONSOLE_RENEWAL_INTERVAL", session.DefaultRenewalInterval),
	}
}

// loadRoutesConfig loads route policy configuration from environment
func loadRoutesConfig() RoutesConfig {
	return RoutesConfig{
		TablePath: getEnv("CONSOLE_ROUTE_TABLE", ""),
		Watch:     getEnvBool("CONSOLE_ROUTE_TABLE_WATCH", false),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLogLevel(getEnv("CONSOLE_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("CONSOLE_METRICS_ENABLED", true),
		TracingEnabled: getEnvBool("CONSOLE_TRACING_ENABLED", false),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if c.Backend.URL == "" {
		return fmt.Errorf("backend URL is required")
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend URL: %s", c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}

	if c.Session.RenewalInterval <= 0 {
		return fmt.Errorf("renewal interval must be positive")
	}

	if c.Routes.Watch && c.Routes.TablePath == "" {
		return fmt.Errorf("route table watching requires a route table path")
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
