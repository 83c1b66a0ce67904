package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stubdex/internal/lint"
	"stubdex/internal/parser"
	"stubdex/internal/render"
)

// checkCmd parses and lints the stub corpus.
var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Parse and lint stub files",
	Long: `Parses every stub file under the given paths (default: the
configured stub roots) and reports syntax and hygiene problems:

  missing-doc     member has no doc comment
  empty-doc       doc comment is only blank lines
  dup-scope       scope name declared twice in one file
  dup-member      member declared twice in one scope
  bad-signature   malformed parameter list
  const-naming    constant is not SCREAMING_SNAKE_CASE
  syntax          unparseable declaration

Exits 1 when any error-severity diagnostic is found.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	roots := resolveRoots(cfg, args)

	results, err := parser.ParseTree(cmd.Context(), roots, cfg.Stubs.Extensions)
	if err != nil {
		return err
	}
	logger.Debug("parsed stub corpus", zap.Int("files", len(results)))

	diags := lint.RunAll(results, lintOptions(cfg))
	for _, d := range diags {
		fmt.Fprintln(cmd.OutOrStdout(), render.Diagnostic(d))
	}

	errs, warns := 0, 0
	for _, d := range diags {
		if d.Severity == lint.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d files checked: %d errors, %d warnings\n",
		len(results), errs, warns)

	if errs > 0 {
		return fmt.Errorf("check failed with %d errors", errs)
	}
	return nil
}
