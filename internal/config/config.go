package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "gatecert"

// Defaults represents default settings
type Defaults struct {
	Output     string        `yaml:"output,omitempty"`      // table, json, yaml
	WindowDays int           `yaml:"window_days,omitempty"` // Renewal window in days
	Workers    int           `yaml:"workers,omitempty"`     // Concurrent certificate lookups
	Timeout    time.Duration `yaml:"timeout,omitempty"`     // Per-host TLS timeout
}

// Config represents the configuration file (~/.config/gatecert/config.yaml)
type Config struct {
	CurrentContext string              `yaml:"current_context,omitempty"`
	Contexts       map[string]*Context `yaml:"contexts,omitempty"`
	Defaults       *Defaults           `yaml:"defaults,omitempty"`
}

func defaultConfig() *Config {
	return &Config{
		Contexts: make(map[string]*Context),
		Defaults: &Defaults{Output: "table"},
	}
}

// GetConfigDir returns the config directory path. GATECERT_CONFIG_DIR wins,
// then $XDG_CONFIG_HOME/gatecert, then ~/.config/gatecert.
func GetConfigDir() string {
	if dir := os.Getenv("GATECERT_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".config", appName)
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// LoadConfig loads the configuration file. A missing file yields the
// default configuration.
func LoadConfig() (*Config, error) {
	configPath := GetConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Initialize maps if nil
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	if cfg.Defaults == nil {
		cfg.Defaults = &Defaults{Output: "table"}
	}

	for name, ctx := range cfg.Contexts {
		if ctx == nil {
			return nil, fmt.Errorf("context %q is empty", name)
		}
		if err := ctx.Validate(); err != nil {
			return nil, fmt.Errorf("context %q: %w", name, err)
		}
	}

	return cfg, nil
}

// SaveConfig saves the configuration file
func SaveConfig(cfg *Config) error {
	configDir := GetConfigDir()

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
