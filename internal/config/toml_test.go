package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.API.URL != nil {
		t.Fatalf("expected empty config")
	}
}

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
url = "https://file.example/api/"
timeout = 5

[monitor]
tick = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	file, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	t.Setenv("JADWAL_API_URL", "")
	t.Setenv("JADWAL_TIMEOUT", "")
	cfg, err := Resolve(file)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.APIURL != "https://file.example/api" {
		t.Fatalf("unexpected api url %q", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Timeout)
	}
	if cfg.Tick != 2*time.Second {
		t.Fatalf("unexpected tick %v", cfg.Tick)
	}

	t.Setenv("JADWAL_API_URL", "http://env.example/api")
	cfg, err = Resolve(file)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.APIURL != "http://env.example/api" {
		t.Fatalf("expected env to win, got %q", cfg.APIURL)
	}
}

func TestResolveRejectsBadURL(t *testing.T) {
	bad := "ftp://nope"
	t.Setenv("JADWAL_API_URL", "")
	if _, err := Resolve(FileConfig{API: APIConfig{URL: &bad}}); err == nil {
		t.Fatalf("expected error for non-http url")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("JADWAL_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("JADWAL_LOG_LEVEL", "")
	os.Unsetenv("JADWAL_LOG_LEVEL")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("JADWAL_LOG_LEVEL"); got != "debug" {
		t.Fatalf("expected debug, got %q", got)
	}
	if err := LoadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Fatalf("missing .env should not fail: %v", err)
	}
}
