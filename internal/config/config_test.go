// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ReportsDir != "reports" {
		t.Errorf("ReportsDir = %q, want reports", cfg.ReportsDir)
	}
	if cfg.BaselineDB == "" {
		t.Error("BaselineDB default missing")
	}
	if cfg.Advisor.Enabled {
		t.Error("advisor should be disabled by default")
	}
	if cfg.Advisor.Timeout != 30*time.Second {
		t.Errorf("Advisor.Timeout = %v, want 30s", cfg.Advisor.Timeout)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
baseline_db: /var/lib/sna/baselines.db
reports_dir: /srv/audit-reports
advisor:
  enabled: true
  timeout: 10s
  endpoints:
    - url: https://api.example.com/v1
      model: test-model
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.BaselineDB != "/var/lib/sna/baselines.db" {
		t.Errorf("BaselineDB = %q", cfg.BaselineDB)
	}
	if cfg.ReportsDir != "/srv/audit-reports" {
		t.Errorf("ReportsDir = %q", cfg.ReportsDir)
	}
	if !cfg.Advisor.Enabled || cfg.Advisor.Timeout != 10*time.Second {
		t.Errorf("Advisor = %+v", cfg.Advisor)
	}
	if len(cfg.Advisor.Endpoints) != 1 || cfg.Advisor.Endpoints[0].Model != "test-model" {
		t.Errorf("Endpoints = %+v", cfg.Advisor.Endpoints)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "baseline_db: /from/file.db\nreports_dir: file-reports\n")

	t.Setenv("SNA_BASELINE_DB", "/from/env.db")
	t.Setenv("SNA_REPORTS_DIR", "env-reports")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.BaselineDB != "/from/env.db" {
		t.Errorf("BaselineDB = %q, env override lost", cfg.BaselineDB)
	}
	if cfg.ReportsDir != "env-reports" {
		t.Errorf("ReportsDir = %q, env override lost", cfg.ReportsDir)
	}
}

func TestLoadResolvesAPIKeyEnv(t *testing.T) {
	path := writeConfig(t, `
advisor:
  enabled: true
  endpoints:
    - url: https://api.example.com/v1
      model: m1
      api_key_env: SNA_TEST_API_KEY
    - url: https://fallback.example.com/v1
      model: m2
      api_key_env: SNA_TEST_MISSING_KEY
`)
	t.Setenv("SNA_TEST_API_KEY", "secret-123")
	os.Unsetenv("SNA_TEST_MISSING_KEY")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := cfg.Advisor.Endpoints[0].APIKey; got != "secret-123" {
		t.Errorf("APIKey = %q, want secret-123", got)
	}
	if got := cfg.Advisor.Endpoints[1].APIKey; got != "" {
		t.Errorf("APIKey = %q, want empty for unset env var", got)
	}
}

func TestLoadZeroTimeoutFallsBack(t *testing.T) {
	path := writeConfig(t, "advisor:\n  timeout: 0s\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Advisor.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s fallback", cfg.Advisor.Timeout)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "baseline_db: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should be an error")
	}
}
