package config

import (
	"fmt"
	"slices"
	"strings"
)

// Supported context providers
const (
	ProviderAzure = "azure"
	ProviderAWS   = "aws"
	ProviderGCP   = "gcp"
	ProviderFile  = "file"
)

// Providers lists the supported context providers
var Providers = []string{ProviderAzure, ProviderAWS, ProviderGCP, ProviderFile}

// Context represents a gateway source configuration
type Context struct {
	Provider      string   `yaml:"provider"`                // azure, aws, gcp or file
	Subscriptions []string `yaml:"subscriptions,omitempty"` // Azure subscription IDs, empty for all
	AuthMethod    string   `yaml:"auth,omitempty"`          // Azure auth method: secret or default
	Profile       string   `yaml:"profile,omitempty"`       // AWS profile name
	Project       string   `yaml:"project,omitempty"`       // GCP project ID
	Region        string   `yaml:"region,omitempty"`        // AWS or GCP region
	File          string   `yaml:"file,omitempty"`          // Gateway export for the file provider
}

// Validate checks the context names a supported provider and carries the
// settings that provider needs
func (c *Context) Validate() error {
	if !slices.Contains(Providers, c.Provider) {
		return fmt.Errorf("unsupported provider %q (supported: %s)", c.Provider, strings.Join(Providers, ", "))
	}
	if c.Provider == ProviderFile && c.File == "" {
		return fmt.Errorf("provider %q requires a file", ProviderFile)
	}
	return nil
}

// GetCurrentContext returns the current active context
func GetCurrentContext() (*Context, string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, "", err
	}

	if cfg.CurrentContext == "" {
		return nil, "", nil
	}

	ctx, ok := cfg.Contexts[cfg.CurrentContext]
	if !ok {
		return nil, "", fmt.Errorf("context %q not found", cfg.CurrentContext)
	}

	return ctx, cfg.CurrentContext, nil
}

// GetContext returns a named context
func GetContext(name string) (*Context, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	ctx, ok := cfg.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// SetCurrentContext sets the current active context
func SetCurrentContext(name string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	// Validate context exists
	if _, ok := cfg.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}

	cfg.CurrentContext = name
	return SaveConfig(cfg)
}

// AddContext adds or updates a context. The first context added becomes
// the current one.
func AddContext(name string, ctx *Context) error {
	if err := ctx.Validate(); err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	cfg.Contexts[name] = ctx
	if cfg.CurrentContext == "" {
		cfg.CurrentContext = name
	}
	return SaveConfig(cfg)
}

// DeleteContext removes a context
func DeleteContext(name string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	if _, ok := cfg.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(cfg.Contexts, name)

	// Clear current context if it was the deleted one
	if cfg.CurrentContext == name {
		cfg.CurrentContext = ""
	}

	return SaveConfig(cfg)
}

// ListContexts returns all configured contexts
func ListContexts() (map[string]*Context, string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, "", err
	}

	return cfg.Contexts, cfg.CurrentContext, nil
}

// ParseContextName parses a context name like "azure:prod" into provider and name
func ParseContextName(name string) (provider, contextName string) {
	parts := strings.SplitN(name, ":", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "", name
}
