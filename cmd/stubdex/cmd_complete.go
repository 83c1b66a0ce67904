package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stubdex/internal/index"
	"stubdex/internal/render"
)

var (
	completeLimit int
	completeJSON  bool
)

// completeCmd lists completion candidates for a prefix.
var completeCmd = &cobra.Command{
	Use:   "complete <prefix>",
	Short: "List completion candidates for a prefix",
	Long: `Queries the index for symbols whose qualified name starts with the
given prefix, shortest first.

Examples:
  stubdex complete String#g
  stubdex complete ENV.
  stubdex complete Kernel`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().IntVar(&completeLimit, "limit", 20, "maximum candidates")
	completeCmd.Flags().BoolVar(&completeJSON, "json", false, "emit JSON for editor integration")
}

func runComplete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := index.Open(indexPath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	syms, err := store.Complete(args[0], completeLimit)
	if err != nil {
		return err
	}

	if completeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(syms)
	}

	if len(syms) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no symbols match %q\n", args[0])
		return nil
	}
	for _, sym := range syms {
		fmt.Fprintln(cmd.OutOrStdout(), render.Completion(sym))
	}
	return nil
}
