package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration. Values come from env vars, optionally
// overridden by a YAML file named in SERVICEDESK_CONFIG.
type Config struct {
	HTTPAddr        string
	UpstreamBaseURL string
	UpstreamToken   string
	UpstreamTimeout time.Duration
	FreshnessWindow time.Duration
	JWTSecret       string
}

// fileConfig is the YAML shape. Durations are strings in Go duration syntax
// ("30s", "10m").
type fileConfig struct {
	HTTPAddr        string `yaml:"http_addr"`
	UpstreamBaseURL string `yaml:"upstream_base_url"`
	UpstreamToken   string `yaml:"upstream_token"`
	UpstreamTimeout string `yaml:"upstream_timeout"`
	FreshnessWindow string `yaml:"freshness_window"`
	JWTSecret       string `yaml:"jwt_secret"`
}

// Load builds the configuration.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:        getenvDefault("HTTP_ADDR", ":8080"),
		UpstreamBaseURL: getenvDefault("UPSTREAM_BASE_URL", ""),
		UpstreamToken:   getenvDefault("UPSTREAM_BEARER_TOKEN", ""),
		UpstreamTimeout: getenvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		FreshnessWindow: getenvDuration("FRESHNESS_WINDOW", 10*time.Minute),
		JWTSecret:       getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}

	if path := os.Getenv("SERVICEDESK_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := applyYAML(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.UpstreamBaseURL == "" {
		return cfg, errors.New("config: UPSTREAM_BASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("config: AUTH_JWT_SECRET is required")
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 30 * time.Second
	}
	if cfg.FreshnessWindow <= 0 {
		cfg.FreshnessWindow = 10 * time.Minute
	}
	return cfg, nil
}

func applyYAML(data []byte, cfg *Config) error {
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	if file.HTTPAddr != "" {
		cfg.HTTPAddr = file.HTTPAddr
	}
	if file.UpstreamBaseURL != "" {
		cfg.UpstreamBaseURL = file.UpstreamBaseURL
	}
	if file.UpstreamToken != "" {
		cfg.UpstreamToken = file.UpstreamToken
	}
	if file.JWTSecret != "" {
		cfg.JWTSecret = file.JWTSecret
	}
	if file.UpstreamTimeout != "" {
		parsed, err := time.ParseDuration(file.UpstreamTimeout)
		if err != nil {
			return fmt.Errorf("config: upstream_timeout: %w", err)
		}
		cfg.UpstreamTimeout = parsed
	}
	if file.FreshnessWindow != "" {
		parsed, err := time.ParseDuration(file.FreshnessWindow)
		if err != nil {
			return fmt.Errorf("config: freshness_window: %w", err)
		}
		cfg.FreshnessWindow = parsed
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
