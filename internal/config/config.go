// internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AdvisorEndpoint is one LLM provider in the fallback chain.
type AdvisorEndpoint struct {
	URL       string `yaml:"url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"` // env var name for API key
	APIKey    string `yaml:"-"`           // resolved at load time
}

// AdvisorConfig controls the optional external recommendation service.
type AdvisorConfig struct {
	Enabled   bool              `yaml:"enabled"`
	Timeout   time.Duration     `yaml:"timeout"`
	Endpoints []AdvisorEndpoint `yaml:"endpoints"`
}

// Config is the tool configuration. Every field has a working default; the
// tool runs with no config file at all.
type Config struct {
	BaselineDB string        `yaml:"baseline_db"`
	ReportsDir string        `yaml:"reports_dir"`
	Advisor    AdvisorConfig `yaml:"advisor"`
}

// DefaultPath returns the default config file location (~/.sna/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".sna", "config.yaml")
	}
	return filepath.Join(home, ".sna", "config.yaml")
}

func defaults() *Config {
	dir := filepath.Dir(DefaultPath())
	return &Config{
		BaselineDB: filepath.Join(dir, "baselines.db"),
		ReportsDir: "reports",
		Advisor: AdvisorConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads YAML config with env overrides. A missing file is not an
// error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Env overrides
	if db := os.Getenv("SNA_BASELINE_DB"); db != "" {
		cfg.BaselineDB = db
	}
	if dir := os.Getenv("SNA_REPORTS_DIR"); dir != "" {
		cfg.ReportsDir = dir
	}

	if cfg.Advisor.Timeout <= 0 {
		cfg.Advisor.Timeout = 30 * time.Second
	}

	// Resolve API keys for each advisor endpoint from env vars
	for i := range cfg.Advisor.Endpoints {
		if cfg.Advisor.Endpoints[i].APIKeyEnv != "" {
			cfg.Advisor.Endpoints[i].APIKey = os.Getenv(cfg.Advisor.Endpoints[i].APIKeyEnv)
		}
	}

	return cfg, nil
}
