package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stubdex/internal/index"
	"stubdex/internal/watch"
)

// watchCmd keeps the index live while stub files change.
var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-index stub files as they change",
	Long: `Watches the stub roots and applies incremental index updates when
files are created, modified, or deleted. Runs until interrupted.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	roots := resolveRoots(cfg, args)

	store, err := index.Open(indexPath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	w, err := watch.New(store, roots, cfg.Stubs.Extensions,
		time.Duration(cfg.Watch.DebounceMS)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := w.Start(cmd.Context()); err != nil {
		return err
	}
	defer w.Stop()

	logger.Info("watching stub roots", zap.Strings("roots", roots))
	fmt.Fprintf(cmd.OutOrStdout(), "watching %v (ctrl-c to stop)\n", roots)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-cmd.Context().Done():
	}

	stats := w.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d events, %d files reindexed, %d removed, %d errors\n",
		stats.EventsSeen, stats.FilesUpdated, stats.FilesRemoved, stats.Errors)
	return nil
}
