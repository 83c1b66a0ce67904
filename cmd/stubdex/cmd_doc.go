package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stubdex/internal/index"
	"stubdex/internal/render"
)

var (
	docWidth int
	docPlain bool
)

// docCmd shows hover documentation for one symbol.
var docCmd = &cobra.Command{
	Use:   "doc <qualified-name>",
	Short: "Show documentation for a symbol",
	Long: `Looks up a symbol by qualified name in the index and renders its
hover documentation.

Qualified names use the stub conventions:
  String#gsub       instance method
  ENV.fetch         singleton method
  Float::INFINITY   constant
  Kernel            scope

Run "stubdex index" first.`,
	Args: cobra.ExactArgs(1),
	RunE: runDoc,
}

func init() {
	docCmd.Flags().IntVar(&docWidth, "width", 80, "wrap width for rendered output")
	docCmd.Flags().BoolVar(&docPlain, "plain", false, "emit raw markdown instead of ANSI")
}

func runDoc(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := index.Open(indexPath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	sym, err := store.Lookup(args[0])
	if err == index.ErrNotFound {
		return fmt.Errorf("no symbol named %q in the index", args[0])
	}
	if err != nil {
		return err
	}

	md := render.HoverMarkdown(sym)
	if docPlain {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	out, err := render.ANSI(md, docWidth)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
