package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stubdex/internal/parser"
	"stubdex/internal/printer"
)

var (
	fmtWrite bool
	fmtCheck bool
)

// fmtCmd regenerates stub files in canonical form.
var fmtCmd = &cobra.Command{
	Use:   "fmt [paths...]",
	Short: "Reprint stub files in canonical form",
	Long: `Parses stub files and regenerates them with canonical layout:
two-space indentation, one blank line between members, doc comments
preserved byte-for-byte.

Without flags the formatted output goes to stdout. --write rewrites the
files in place. --check reports files that are not canonical and exits 1
if any exist. Files with parse errors are skipped and reported.`,
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtWrite, "write", false, "rewrite files in place")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "exit 1 if any file is not canonical")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	roots := resolveRoots(cfg, args)

	paths, err := parser.CollectPaths(roots, cfg.Stubs.Extensions)
	if err != nil {
		return err
	}

	var dirty []string
	skipped := 0
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		f, issues := parser.Parse(path, src)
		if hasHardIssues(issues) {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %d parse errors (run check)\n", path, len(issues))
			skipped++
			continue
		}

		out := printer.Print(f)
		if bytes.Equal(src, out) {
			continue
		}
		dirty = append(dirty, path)

		switch {
		case fmtWrite:
			if err := os.WriteFile(path, out, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Debug("rewrote stub file", zap.String("path", path))
		case fmtCheck:
			fmt.Fprintln(cmd.OutOrStdout(), path)
		default:
			cmd.OutOrStdout().Write(out)
		}
	}

	if fmtCheck && len(dirty) > 0 {
		return fmt.Errorf("%d files are not canonically formatted", len(dirty))
	}
	if fmtWrite {
		fmt.Fprintf(cmd.OutOrStdout(), "rewrote %d of %d files (%d skipped)\n",
			len(dirty), len(paths), skipped)
	}
	return nil
}

// hasHardIssues reports whether issues prevent faithful regeneration.
// Signature diagnostics are recoverable; syntax and body errors are not.
func hasHardIssues(issues []parser.Issue) bool {
	for _, is := range issues {
		if is.Code != parser.CodeBadSignature {
			return true
		}
	}
	return false
}
