// Package config provides configuration loading and management for
// the CODSL workbench.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete workbench configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Model      ModelConfig      `yaml:"model"`
	Store      StoreConfig      `yaml:"store"`
	NATS       NATSConfig       `yaml:"nats"`
	Validation ValidationConfig `yaml:"validation"`
}

// ServerConfig configures the HTTP workbench server
type ServerConfig struct {
	// Addr is the listen address (default: :8080)
	Addr string `yaml:"addr"`
	// ReadTimeout bounds how long reading a request may take
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout bounds how long writing a response may take
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ModelConfig configures the LLM used for semantic validation
type ModelConfig struct {
	// Provider is the LLM provider name ("ollama", "openai", "anthropic")
	Provider string `yaml:"provider"`
	// Default is the default model to use (e.g., "qwen2.5-coder:32b")
	Default string `yaml:"default"`
	// Endpoint is the provider API endpoint (default: http://localhost:11434/v1)
	Endpoint string `yaml:"endpoint"`
	// Temperature controls randomness (0.0-1.0, default: 0.2)
	Temperature float64 `yaml:"temperature"`
	// Timeout is the maximum time to wait for model responses
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig configures example persistence
type StoreConfig struct {
	// ExamplesDir is the directory holding example JSON documents
	ExamplesDir string `yaml:"examples_dir"`
	// Watch enables cache invalidation on file changes. A nil pointer
	// means unset, so a layered config can turn watching off.
	Watch *bool `yaml:"watch"`
}

// WatchEnabled reports whether file watching is on (the default when unset).
func (s StoreConfig) WatchEnabled() bool {
	return s.Watch == nil || *s.Watch
}

// NATSConfig configures the optional JetStream-backed example store
type NATSConfig struct {
	// URL is the NATS server URL (empty = use the file store)
	URL string `yaml:"url"`
	// Bucket is the JetStream KV bucket name
	Bucket string `yaml:"bucket"`
}

// ValidationConfig configures the semantic validator
type ValidationConfig struct {
	// Level is the default validation level ("structural", "semantic",
	// "pragmatic")
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Model: ModelConfig{
			Provider:    "ollama",
			Default:     "qwen2.5-coder:32b",
			Endpoint:    "http://localhost:11434/v1",
			Temperature: 0.2,
			Timeout:     5 * time.Minute,
		},
		Store: StoreConfig{
			ExamplesDir: "examples",
			Watch:       boolPtr(true),
		},
		NATS: NATSConfig{
			URL:    "",
			Bucket: "CODSL_EXAMPLES",
		},
		Validation: ValidationConfig{
			Level: "structural",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Model.Provider == "" {
		return fmt.Errorf("model.provider is required")
	}
	if c.Model.Default == "" {
		return fmt.Errorf("model.default is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	switch c.Validation.Level {
	case "structural", "semantic", "pragmatic":
	default:
		return fmt.Errorf("validation.level must be structural, semantic, or pragmatic")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}

	// Model
	if other.Model.Provider != "" {
		c.Model.Provider = other.Model.Provider
	}
	if other.Model.Default != "" {
		c.Model.Default = other.Model.Default
	}
	if other.Model.Endpoint != "" {
		c.Model.Endpoint = other.Model.Endpoint
	}
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	// Store
	if other.Store.ExamplesDir != "" {
		c.Store.ExamplesDir = other.Store.ExamplesDir
	}
	if other.Store.Watch != nil {
		c.Store.Watch = other.Store.Watch
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Bucket != "" {
		c.NATS.Bucket = other.NATS.Bucket
	}

	// Validation
	if other.Validation.Level != "" {
		c.Validation.Level = other.Validation.Level
	}
}

func boolPtr(v bool) *bool {
	return &v
}
