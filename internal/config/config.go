// Package config loads and saves stubdex workspace configuration from
// .stubdex/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all stubdex configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Stubs   StubsConfig   `yaml:"stubs"`
	Lint    LintConfig    `yaml:"lint"`
	Index   IndexConfig   `yaml:"index"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// StubsConfig locates the stub corpus.
type StubsConfig struct {
	// Roots are directories (or individual files) scanned for stubs,
	// relative to the workspace.
	Roots []string `yaml:"roots"`

	// Extensions selects which files count as stub files.
	Extensions []string `yaml:"extensions"`
}

// LintConfig toggles rules and overrides severities.
type LintConfig struct {
	Disabled []string          `yaml:"disabled"`
	Severity map[string]string `yaml:"severity"` // rule -> warn|error
}

// IndexConfig configures the symbol index.
type IndexConfig struct {
	// Path of the SQLite database, relative to the workspace.
	Path string `yaml:"path"`
}

// WatchConfig configures the filesystem watcher.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// LoggingConfig controls categorized file logging (see internal/logging).
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Name:    "stubdex",
		Version: "1",
		Stubs: StubsConfig{
			Roots:      []string{"stubs"},
			Extensions: []string{".rb"},
		},
		Index: IndexConfig{
			Path: filepath.Join(".stubdex", "index.db"),
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Path returns the config file location for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ".stubdex", "config.yaml")
}

// Load reads the workspace config, falling back to Default when the file
// does not exist.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the workspace, creating .stubdex/ if needed.
func (c *Config) Save(workspace string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := Path(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the tools cannot work with.
func (c *Config) Validate() error {
	if len(c.Stubs.Roots) == 0 {
		return fmt.Errorf("config: stubs.roots must not be empty")
	}
	if len(c.Stubs.Extensions) == 0 {
		return fmt.Errorf("config: stubs.extensions must not be empty")
	}
	if c.Index.Path == "" {
		return fmt.Errorf("config: index.path must not be empty")
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("config: watch.debounce_ms must not be negative")
	}
	for rule, sev := range c.Lint.Severity {
		if sev != "warn" && sev != "error" {
			return fmt.Errorf("config: lint.severity[%s] must be warn or error, got %q", rule, sev)
		}
	}
	return nil
}

// LintOptions converts the config's lint section into the shapes
// internal/lint consumes: a disabled-rule set and a severity override map.
func (c *Config) LintOptions() (disabled map[string]bool, severity map[string]string) {
	disabled = make(map[string]bool, len(c.Lint.Disabled))
	for _, rule := range c.Lint.Disabled {
		disabled[rule] = true
	}
	return disabled, c.Lint.Severity
}
