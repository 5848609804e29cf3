package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const minimalConfig = `
backends:
  - base_url: "https://cdn.example.com"
status:
  bot_name: "examplebot"
`

func TestLoadConfigMinimal(t *testing.T) {
	path := writeConfigFile(t, minimalConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected default listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Stream.ChunkSize != DefaultChunkSize {
		t.Errorf("expected default chunk size, got %d", cfg.Stream.ChunkSize)
	}
	if len(cfg.Backends) != 1 {
		t.Fatalf("expected 1 backend, got %d", len(cfg.Backends))
	}
	if cfg.Backends[0].Name != "bot1" {
		t.Errorf("expected generated name bot1, got %q", cfg.Backends[0].Name)
	}
	if cfg.Backends[0].Timeout != DefaultBackendTimeout {
		t.Errorf("expected default backend timeout, got %v", cfg.Backends[0].Timeout)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics should default to enabled")
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Telemetry.Logging)
	}
}

func TestLoadConfigFull(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:9000"
  read_timeout: 10s
backends:
  - name: "primary"
    base_url: "https://a.example.com"
    timeout: 45s
  - name: "secondary"
    base_url: "https://b.example.com"
stream:
  chunk_size: 524288
  session_max_idle: 30m
status:
  bot_name: "examplebot"
telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: false
transfer_log:
  enabled: true
  path: "/tmp/transfers.db"
  retention_days: 7
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:9000" {
		t.Errorf("unexpected listen address %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("unexpected read timeout %v", cfg.Server.ReadTimeout)
	}
	if cfg.Stream.ChunkSize != 524288 {
		t.Errorf("unexpected chunk size %d", cfg.Stream.ChunkSize)
	}
	if cfg.Stream.SessionMaxIdle != 30*time.Minute {
		t.Errorf("unexpected session max idle %v", cfg.Stream.SessionMaxIdle)
	}
	if cfg.Backends[0].Name != "primary" || cfg.Backends[1].Name != "secondary" {
		t.Errorf("unexpected backend names %q, %q", cfg.Backends[0].Name, cfg.Backends[1].Name)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit metrics.enabled=false should survive loading")
	}
	if !cfg.TransferLog.Enabled || cfg.TransferLog.RetentionDays != 7 {
		t.Errorf("unexpected transfer log config %+v", cfg.TransferLog)
	}
}

func TestLoadConfigRetentionZeroDisablesPruning(t *testing.T) {
	// An explicit retention_days: 0 means "keep records forever" and must
	// not be rewritten to the default.
	path := writeConfigFile(t, `
backends:
  - base_url: "https://cdn.example.com"
transfer_log:
  enabled: true
  retention_days: 0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.TransferLog.RetentionDays != 0 {
		t.Errorf("explicit retention_days 0 became %d", cfg.TransferLog.RetentionDays)
	}

	// An absent field still gets the default.
	path = writeConfigFile(t, `
backends:
  - base_url: "https://cdn.example.com"
transfer_log:
  enabled: true
`)
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.TransferLog.RetentionDays != DefaultTransferLogRetention {
		t.Errorf("absent retention_days should default to %d, got %d",
			DefaultTransferLogRetention, cfg.TransferLog.RetentionDays)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "backends: [\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateEmptyBackendPool(t *testing.T) {
	path := writeConfigFile(t, `
status:
  bot_name: "examplebot"
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error for empty backend pool")
	}
	if !strings.Contains(err.Error(), "at least one backend") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad listen address", func(c *Config) { c.Server.ListenAddress = "nohost" }, "server.listen_address"},
		{"negative read timeout", func(c *Config) { c.Server.ReadTimeout = -time.Second }, "server.read_timeout"},
		{"relative base url", func(c *Config) { c.Backends[0].BaseURL = "cdn.example.com" }, "backends[0].base_url"},
		{"zero chunk size", func(c *Config) { c.Stream.ChunkSize = 0 }, "stream.chunk_size"},
		{"unknown log level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"unknown log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Backends: []BackendConfig{{BaseURL: "https://cdn.example.com"}},
			}
			ApplyDefaults(cfg)
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error naming %s, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidateDuplicateBackendNames(t *testing.T) {
	cfg := &Config{
		Backends: []BackendConfig{
			{Name: "bot1", BaseURL: "https://a.example.com"},
			{Name: "bot1", BaseURL: "https://b.example.com"},
		},
	}
	ApplyDefaults(cfg)

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for duplicate names")
	}
	if !strings.Contains(err.Error(), "duplicate backend name") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, minimalConfig)

	t.Setenv("FSB_SERVER_LISTEN_ADDRESS", "127.0.0.1:7777")
	t.Setenv("FSB_STREAM_CHUNK_SIZE", "65536")
	t.Setenv("FSB_LOG_LEVEL", "warn")
	t.Setenv("FSB_METRICS_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:7777" {
		t.Errorf("listen address override not applied: %q", cfg.Server.ListenAddress)
	}
	if cfg.Stream.ChunkSize != 65536 {
		t.Errorf("chunk size override not applied: %d", cfg.Stream.ChunkSize)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("log level override not applied: %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics override not applied")
	}
}
