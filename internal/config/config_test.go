package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want console", cfg.Log.Format)
	}
	if len(cfg.Domains) != 0 {
		t.Errorf("Domains should be empty by default, got %v", cfg.Domains)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DBREPO_LOG_LEVEL", "log.level"},
		{"DBREPO_LOG_FORMAT", "log.format"},
		{"DBREPO_DOMAINS_DEFAULT_DSN", "domains.default.dsn"},
		{"DBREPO_DOMAINS_DEFAULT_DRIVER", "domains.default.driver"},
		{"DBREPO_DOMAINS_MY_STATS_MAX_OPEN_CONNS", "domains.my_stats.max_open_conns"},
		{"DBREPO_DOMAINS_STATS_CONN_MAX_LIFETIME", "domains.stats.conn_max_lifetime"},
		{"DBREPO_DOMAINS_DSN", ""},
		{"DBREPO_DOMAINS_DEFAULT_UNKNOWN", ""},
		{"DBREPO_CONFIG", ""},
		{"DBREPO_OTHER", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dbrepo.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: debug
domains:
  default:
    driver: sqlite
    dsn: "file::memory:"
    max_open_conns: 1
  stats:
    driver: postgres
    dsn: postgres://localhost/stats
    conn_max_lifetime: 5m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want default console", cfg.Log.Format)
	}
	if len(cfg.Domains) != 2 {
		t.Fatalf("expected 2 domains, got %d", len(cfg.Domains))
	}
	if cfg.Domains["default"].MaxOpenConns != 1 {
		t.Errorf("default.MaxOpenConns = %d, want 1", cfg.Domains["default"].MaxOpenConns)
	}
	if cfg.Domains["stats"].ConnMaxLifetime != 5*time.Minute {
		t.Errorf("stats.ConnMaxLifetime = %v, want 5m", cfg.Domains["stats"].ConnMaxLifetime)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
domains:
  default:
    driver: mysql
    dsn: file-dsn
`)
	t.Setenv("DBREPO_DOMAINS_DEFAULT_DSN", "env-dsn")
	t.Setenv("DBREPO_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Domains["default"].Dsn != "env-dsn" {
		t.Errorf("default.Dsn = %q, want env-dsn", cfg.Domains["default"].Dsn)
	}
	if cfg.Domains["default"].Driver != "mysql" {
		t.Errorf("default.Driver = %q, want mysql", cfg.Domains["default"].Driver)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadConfigPathEnvVar(t *testing.T) {
	path := writeConfigFile(t, "log:\n  format: json\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadValidation(t *testing.T) {
	path := writeConfigFile(t, `
domains:
  default:
    driver: oracle
    dsn: whatever
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for unsupported driver")
	}
	if !strings.Contains(err.Error(), "oracle") {
		t.Errorf("error should mention the driver, got: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
