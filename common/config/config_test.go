package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RISKWATCH_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults should succeed: %v", err)
	}

	// Pipeline defaults
	if cfg.Pipeline.LogonPath != "logon.csv" {
		t.Errorf("Expected default logon path logon.csv, got %s", cfg.Pipeline.LogonPath)
	}
	if cfg.Pipeline.OutputPath != "user_risk_analysis.csv" {
		t.Errorf("Expected default output path user_risk_analysis.csv, got %s", cfg.Pipeline.OutputPath)
	}
	if cfg.Pipeline.Model.Trees != 200 {
		t.Errorf("Expected default 200 trees, got %d", cfg.Pipeline.Model.Trees)
	}
	if cfg.Pipeline.Model.Contamination != 0.02 {
		t.Errorf("Expected default contamination 0.02, got %v", cfg.Pipeline.Model.Contamination)
	}
	if cfg.Pipeline.Model.Seed != 42 {
		t.Errorf("Expected default seed 42, got %d", cfg.Pipeline.Model.Seed)
	}
	if cfg.Pipeline.Spikes.ZThreshold != 2.0 {
		t.Errorf("Expected default z threshold 2.0, got %v", cfg.Pipeline.Spikes.ZThreshold)
	}

	// Dashboard defaults
	if cfg.Dashboard.Server.Port != 8090 {
		t.Errorf("Expected default port 8090, got %d", cfg.Dashboard.Server.Port)
	}
	if cfg.Dashboard.CacheTTL != 300*time.Second {
		t.Errorf("Expected default cache TTL 300s, got %v", cfg.Dashboard.CacheTTL)
	}
	if cfg.Dashboard.Auth.Username != "admin" {
		t.Errorf("Expected default auth username admin, got %s", cfg.Dashboard.Auth.Username)
	}
	if cfg.Dashboard.Auth.PasswordHash != "" {
		t.Error("Expected auth disabled by default")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Expected info/json logging defaults, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configContent := `
pipeline:
  logon_path: /data/logon.csv
  model:
    trees: 50
    seed: 7
dashboard:
  server:
    port: 9999
  data_path: /data/scored.csv
  cache_ttl: 30s
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("RISKWATCH_CONFIG_DIR", tempDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load should succeed: %v", err)
	}

	if cfg.Pipeline.LogonPath != "/data/logon.csv" {
		t.Errorf("Expected file value for logon path, got %s", cfg.Pipeline.LogonPath)
	}
	if cfg.Pipeline.Model.Trees != 50 {
		t.Errorf("Expected 50 trees from file, got %d", cfg.Pipeline.Model.Trees)
	}
	if cfg.Pipeline.Model.Seed != 7 {
		t.Errorf("Expected seed 7 from file, got %d", cfg.Pipeline.Model.Seed)
	}
	if cfg.Dashboard.Server.Port != 9999 {
		t.Errorf("Expected port 9999 from file, got %d", cfg.Dashboard.Server.Port)
	}
	if cfg.Dashboard.CacheTTL != 30*time.Second {
		t.Errorf("Expected cache TTL 30s from file, got %v", cfg.Dashboard.CacheTTL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level from file, got %s", cfg.Logging.Level)
	}

	// Values absent from the file keep their defaults.
	if cfg.Pipeline.Model.Contamination != 0.02 {
		t.Errorf("Expected default contamination to survive, got %v", cfg.Pipeline.Model.Contamination)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("RISKWATCH_CONFIG_DIR", tempDir)

	if _, err := Load(); err == nil {
		t.Error("Expected malformed config file to fail")
	}
}
