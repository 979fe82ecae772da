package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Model.Provider != "ollama" {
		t.Errorf("expected default provider ollama, got %s", cfg.Model.Provider)
	}
	if cfg.Model.Endpoint != "http://localhost:11434/v1" {
		t.Errorf("expected default endpoint http://localhost:11434/v1, got %s", cfg.Model.Endpoint)
	}
	if cfg.Model.Temperature != 0.2 {
		t.Errorf("expected default temperature 0.2, got %f", cfg.Model.Temperature)
	}
	if cfg.Store.ExamplesDir != "examples" {
		t.Errorf("expected default examples dir, got %s", cfg.Store.ExamplesDir)
	}
	if cfg.NATS.Bucket != "CODSL_EXAMPLES" {
		t.Errorf("expected default bucket CODSL_EXAMPLES, got %s", cfg.NATS.Bucket)
	}
	if cfg.Validation.Level != "structural" {
		t.Errorf("expected default validation level structural, got %s", cfg.Validation.Level)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing server addr",
			modify:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
		},
		{
			name:    "missing model provider",
			modify:  func(c *Config) { c.Model.Provider = "" },
			wantErr: true,
		},
		{
			name:    "missing model default",
			modify:  func(c *Config) { c.Model.Default = "" },
			wantErr: true,
		},
		{
			name:    "temperature too low",
			modify:  func(c *Config) { c.Model.Temperature = -0.1 },
			wantErr: true,
		},
		{
			name:    "temperature too high",
			modify:  func(c *Config) { c.Model.Temperature = 1.1 },
			wantErr: true,
		},
		{
			name:    "bad validation level",
			modify:  func(c *Config) { c.Validation.Level = "heuristic" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  addr: ":9090"
model:
  provider: "anthropic"
  default: "test-model"
  endpoint: "http://test:1234/v1"
  temperature: 0.5
  timeout: 10m
store:
  examples_dir: "/data/examples"
nats:
  url: "nats://test:4222"
validation:
  level: "semantic"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %s", cfg.Server.Addr)
	}
	if cfg.Model.Provider != "anthropic" {
		t.Errorf("expected provider anthropic, got %s", cfg.Model.Provider)
	}
	if cfg.Model.Default != "test-model" {
		t.Errorf("expected model test-model, got %s", cfg.Model.Default)
	}
	if cfg.Model.Timeout != 10*time.Minute {
		t.Errorf("expected timeout 10m, got %v", cfg.Model.Timeout)
	}
	if cfg.Store.ExamplesDir != "/data/examples" {
		t.Errorf("expected examples dir /data/examples, got %s", cfg.Store.ExamplesDir)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	if cfg.Validation.Level != "semantic" {
		t.Errorf("expected validation level semantic, got %s", cfg.Validation.Level)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Model: ModelConfig{
			Default: "override-model",
		},
		Store: StoreConfig{
			ExamplesDir: "/override/examples",
		},
	}

	base.Merge(override)

	if base.Model.Default != "override-model" {
		t.Errorf("expected model override-model, got %s", base.Model.Default)
	}
	// Endpoint should remain from base since override didn't set it
	if base.Model.Endpoint != "http://localhost:11434/v1" {
		t.Errorf("expected endpoint to remain default, got %s", base.Model.Endpoint)
	}
	if base.Store.ExamplesDir != "/override/examples" {
		t.Errorf("expected examples dir /override/examples, got %s", base.Store.ExamplesDir)
	}
}

func TestConfigMergeWatchOverride(t *testing.T) {
	base := DefaultConfig()
	if !base.Store.WatchEnabled() {
		t.Fatal("expected watch to default to enabled")
	}

	// A layer that never mentions watch must not touch it.
	base.Merge(&Config{Store: StoreConfig{ExamplesDir: "/other"}})
	if !base.Store.WatchEnabled() {
		t.Error("expected watch to stay enabled after merging a layer without it")
	}

	// An explicit watch: false must win over the default.
	base.Merge(&Config{Store: StoreConfig{Watch: boolPtr(false)}})
	if base.Store.WatchEnabled() {
		t.Error("expected watch: false to disable watching")
	}

	// And an explicit true must turn it back on.
	base.Merge(&Config{Store: StoreConfig{Watch: boolPtr(true)}})
	if !base.Store.WatchEnabled() {
		t.Error("expected watch: true to re-enable watching")
	}
}

func TestLoadFromFileWatchDisabled(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
store:
  examples_dir: "/data/examples"
  watch: false
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Store.WatchEnabled() {
		t.Error("expected watch: false in the file to disable watching")
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Model.Default = "saved-model"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Model.Default != "saved-model" {
		t.Errorf("expected model saved-model, got %s", loaded.Model.Default)
	}
}
