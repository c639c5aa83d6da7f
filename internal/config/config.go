package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv          string
	Port            string
	DatabaseURL     string
	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	CORSOrigin      string
	LogLevel        string
	LogFormat       string
	TargetTitles    []string
	LaunchCommand   string
	LaunchArgs      []string
	LaunchInstances int

	WSMaxConnections int64
	WSMaxPerIP       int
	WSConnRate       float64
	WSConnBurst      int
}

// fileConfig is the optional YAML overlay for window-targeting settings that
// are awkward to express in env vars.
type fileConfig struct {
	TargetTitles []string `yaml:"target_titles"`
	Launch       struct {
		Command   string   `yaml:"command"`
		Args      []string `yaml:"args"`
		Instances int      `yaml:"instances"`
	} `yaml:"launch"`
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "windowdeck"),
		JWTAudience:     getEnv("JWT_AUDIENCE", "windowdeck-clients"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "http://localhost:4200"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		LaunchCommand:   getEnv("LAUNCH_COMMAND", "xterm"),
		LaunchInstances: 2,

		WSMaxConnections: 100,
		WSMaxPerIP:       10,
		WSConnRate:       10.0,
		WSConnBurst:      10,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	if v := os.Getenv("TARGET_TITLES"); v != "" {
		cfg.TargetTitles = splitList(v)
	} else {
		cfg.TargetTitles = []string{"notepad"}
	}

	if v := os.Getenv("LAUNCH_INSTANCES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("LAUNCH_INSTANCES must be a positive integer, got %q", v)
		}
		cfg.LaunchInstances = n
	}

	if v := os.Getenv("WS_MAX_CONNECTIONS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("WS_MAX_CONNECTIONS must be a positive integer, got %q", v)
		}
		cfg.WSMaxConnections = n
	}

	if v := os.Getenv("WS_MAX_PER_IP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("WS_MAX_PER_IP must be a positive integer, got %q", v)
		}
		cfg.WSMaxPerIP = n
	}

	// YAML overlay wins over env for the targeting settings it sets.
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(fc.TargetTitles) > 0 {
		c.TargetTitles = fc.TargetTitles
	}
	if fc.Launch.Command != "" {
		c.LaunchCommand = fc.Launch.Command
		c.LaunchArgs = fc.Launch.Args
	}
	if fc.Launch.Instances > 0 {
		c.LaunchInstances = fc.Launch.Instances
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
