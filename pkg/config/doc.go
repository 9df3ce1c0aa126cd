// Package config loads console configuration from CONSOLE_* environment
// variables with sensible defaults for local use.
package config
