package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stubdex/internal/index"
	"stubdex/internal/parser"
	"stubdex/internal/stub"
)

// indexCmd builds the symbol index.
var indexCmd = &cobra.Command{
	Use:   "index [paths...]",
	Short: "Build the SQLite symbol index",
	Long: `Parses the stub corpus and rebuilds the symbol index from scratch.
Files with parse errors still contribute whatever declarations the parser
could recover, so a single broken file does not blank out completions.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	roots := resolveRoots(cfg, args)

	results, err := parser.ParseTree(cmd.Context(), roots, cfg.Stubs.Extensions)
	if err != nil {
		return err
	}

	files := make([]*stub.File, 0, len(results))
	issueCount := 0
	for _, res := range results {
		files = append(files, res.File)
		issueCount += len(res.Issues)
	}
	if issueCount > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d parse issues; run check for details\n", issueCount)
	}

	store, err := index.Open(indexPath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	generation, err := store.Build(files)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	logger.Info("index built",
		zap.String("generation", generation),
		zap.Int("files", len(files)))

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d files, %d symbols (generation %s)\n",
		stats.Files, stats.Symbols, generation)
	return nil
}
