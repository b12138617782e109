package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/jadwal/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "jadwal.log")
	logger, err := New(config.Config{LogPath: path, LogLevel: "debug", LogFormat: "json"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("batch loaded")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", line, err)
	}
	if entry["msg"] != "batch loaded" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jadwal.log")
	logger, err := New(config.Config{LogPath: path, LogLevel: "warn", LogFormat: "console"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("unexpected log contents %q", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(config.Config{LogPath: filepath.Join(t.TempDir(), "x.log"), LogLevel: "loud"}); err == nil {
		t.Fatalf("expected error for bad level")
	}
}
