package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"stubdex/internal/index"
	"stubdex/internal/stub"
)

// statsCmd summarizes the index contents.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show symbol index statistics",
	RunE:  runStats,
}

var (
	statsHeaderStyle = lipgloss.NewStyle().Bold(true)
	statsDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := index.Open(indexPath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, statsHeaderStyle.Render("stubdex index"))
	fmt.Fprintf(out, "  files:   %d\n", stats.Files)
	fmt.Fprintf(out, "  symbols: %d\n", stats.Symbols)

	kinds := make([]string, 0, len(stats.ByKind))
	for k := range stats.ByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(out, "    %-17s %d\n", k, stats.ByKind[stub.SymbolKind(k)])
	}

	if stats.Generation != "" {
		fmt.Fprintln(out, statsDimStyle.Render(
			fmt.Sprintf("  generation %s, built %s", stats.Generation, stats.BuiltAt.Format("2006-01-02 15:04:05"))))
	}
	return nil
}
