package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "UPSTREAM_BASE_URL", "UPSTREAM_BEARER_TOKEN",
		"UPSTREAM_TIMEOUT", "FRESHNESS_WINDOW", "AUTH_JWT_SECRET",
		"JWT_SECRET", "SERVICEDESK_CONFIG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_BASE_URL", "http://backend:9000")
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.FreshnessWindow != 10*time.Minute {
		t.Fatalf("expected 10m window, got %s", cfg.FreshnessWindow)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_BASE_URL", "http://backend:9000")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("HTTP_ADDR", ":9191")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("FRESHNESS_WINDOW", "3m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9191" {
		t.Fatalf("expected :9191, got %q", cfg.HTTPAddr)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %s", cfg.UpstreamTimeout)
	}
	if cfg.FreshnessWindow != 3*time.Minute {
		t.Fatalf("expected 3m, got %s", cfg.FreshnessWindow)
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_BASE_URL", "http://env-backend:9000")
	t.Setenv("AUTH_JWT_SECRET", "secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "upstream_base_url: http://file-backend:9000\nfreshness_window: 2m\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SERVICEDESK_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.UpstreamBaseURL != "http://file-backend:9000" {
		t.Fatalf("expected file value to win, got %q", cfg.UpstreamBaseURL)
	}
	if cfg.FreshnessWindow != 2*time.Minute {
		t.Fatalf("expected 2m, got %s", cfg.FreshnessWindow)
	}
}

func TestLoad_RequiredValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "secret")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing base url")
	}

	clearEnv(t)
	t.Setenv("UPSTREAM_BASE_URL", "http://backend:9000")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_BASE_URL", "http://backend:9000")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("FRESHNESS_WINDOW", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FreshnessWindow != 10*time.Minute {
		t.Fatalf("expected fallback 10m, got %s", cfg.FreshnessWindow)
	}
}
