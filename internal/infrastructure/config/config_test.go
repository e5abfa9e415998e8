package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "127.0.0.1"
  port: 9090
mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 1883
    client_id: "test-client"
  qos: 1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "/tmp/test.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want default 8080", cfg.API.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Logging.Level, "info")
	}
	if cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = true, want default false")
	}
	if cfg.WebSocket.Path != "/ws" {
		t.Errorf("WebSocket.Path = %q, want default %q", cfg.WebSocket.Path, "/ws")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
database:
  path: ""
`)

	_, err := Load(path)
	if err == nil {
		t.Error("Load() expected validation error for empty database path, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "/tmp/file-value.db"
api:
  port: 8081
`)

	t.Setenv("ECOSFERA_DATABASE_PATH", "/tmp/env-value.db")
	t.Setenv("ECOSFERA_API_PORT", "9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/env-value.db" {
		t.Errorf("Database.Path = %q, want env override %q", cfg.Database.Path, "/tmp/env-value.db")
	}
	if cfg.API.Port != 9999 {
		t.Errorf("API.Port = %d, want env override 9999", cfg.API.Port)
	}
}

func TestValidate_InvalidQoS(t *testing.T) {
	cfg := defaultConfig()
	cfg.MQTT.QoS = 3

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for qos=3, got nil")
	}
}

func TestValidate_InfluxDBRequiresURL(t *testing.T) {
	cfg := defaultConfig()
	cfg.InfluxDB.Enabled = true
	cfg.InfluxDB.Bucket = "energy"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for enabled influxdb without url, got nil")
	}
}
