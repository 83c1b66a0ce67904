package main

import (
	"fmt"
	"path/filepath"

	"stubdex/internal/config"
	"stubdex/internal/lint"
)

// loadConfig reads the workspace configuration (or defaults).
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveRoots picks the stub roots: explicit command arguments win,
// otherwise the configured roots resolved against the workspace.
func resolveRoots(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	roots := make([]string, len(cfg.Stubs.Roots))
	for i, r := range cfg.Stubs.Roots {
		if filepath.IsAbs(r) {
			roots[i] = r
		} else {
			roots[i] = filepath.Join(workspace, r)
		}
	}
	return roots
}

// indexPath resolves the configured index database path.
func indexPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Index.Path) {
		return cfg.Index.Path
	}
	return filepath.Join(workspace, cfg.Index.Path)
}

// lintOptions converts config lint settings into lint.Options.
func lintOptions(cfg *config.Config) lint.Options {
	disabled, severity := cfg.LintOptions()
	opts := lint.Options{Disabled: disabled}
	if len(severity) > 0 {
		opts.Severity = make(map[string]lint.Severity, len(severity))
		for rule, sev := range severity {
			opts.Severity[rule] = lint.Severity(sev)
		}
	}
	return opts
}
