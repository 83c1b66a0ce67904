package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stubdex/internal/config"
)

// initCmd sets up .stubdex/ in the workspace.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stubdex in the current workspace",
	Long: `Creates the .stubdex/ directory with a default config.yaml and the
default stub root directory. Run once per project.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfgPath := config.Path(workspace)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("workspace already initialized: %s exists", cfgPath)
	}

	cfg := config.Default()
	if err := cfg.Save(workspace); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	for _, root := range cfg.Stubs.Roots {
		if err := os.MkdirAll(filepath.Join(workspace, root), 0755); err != nil {
			return fmt.Errorf("create stub root %s: %w", root, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "initialized stubdex workspace at %s\n", workspace)
	fmt.Fprintf(cmd.OutOrStdout(), "  config: %s\n", cfgPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  stubs:  %v\n", cfg.Stubs.Roots)
	return nil
}
