// Package config loads application configuration from environment variables,
// with an optional YAML overlay for window-targeting settings.
package config
