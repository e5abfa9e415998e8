package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetConfigPath(t *testing.T) {
	t.Setenv("ECOSFERA_CONFIG", "")
	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("ECOSFERA_CONFIG", "/etc/ecosfera/config.yaml")
	if got := getConfigPath(); got != "/etc/ecosfera/config.yaml" {
		t.Errorf("getConfigPath() = %q, want env override", got)
	}
}

func TestRun_MissingConfig(t *testing.T) {
	t.Setenv("ECOSFERA_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with a missing config file")
	}
}

func TestRun_InvalidDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database:
  path: ""
  wal_mode: true
  busy_timeout: 5

api:
  host: "127.0.0.1"
  port: 18080

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	t.Setenv("ECOSFERA_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail when database.path is empty")
	}
}
