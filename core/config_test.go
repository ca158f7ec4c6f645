package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"CONFIG_FILE", "PORT", "COOKIE_SECURE", "CACHE_TTL_SECONDS"} {
		t.Setenv(name, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("default port: got %q", cfg.Port)
	}
	if !cfg.CookieSecure {
		t.Fatalf("cookie secure should default to true")
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Fatalf("default cache ttl: got %v", cfg.CacheTTL)
	}
}

func TestLoadFileOverlayAndEnvPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
port: "4000"
jwt_secret: file-secret
cookie_secure: false
cache_ttl_seconds: 5
allowed_origins:
  - https://app.example.com
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	for _, name := range []string{"JWT_SECRET", "COOKIE_SECURE", "CACHE_TTL_SECONDS", "ALLOWED_ORIGINS"} {
		t.Setenv(name, "")
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "5000") // env must win over the file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Fatalf("env should override file: got %q", cfg.Port)
	}
	if cfg.JWTSecret != "file-secret" {
		t.Fatalf("file value should apply: got %q", cfg.JWTSecret)
	}
	if cfg.CookieSecure {
		t.Fatalf("file cookie_secure=false should apply")
	}
	if cfg.CacheTTL != 5*time.Second {
		t.Fatalf("file cache ttl should apply: got %v", cfg.CacheTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.example.com" {
		t.Fatalf("file origins should apply: got %v", cfg.AllowedOrigins)
	}
}

func TestLoadMissingConfigFileFails(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	got := parseCSV(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("got %v", got)
	}
	if out := parseCSV(""); out != nil {
		t.Fatalf("empty input should yield nil, got %v", out)
	}
}
