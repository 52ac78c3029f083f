package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"orderdesk/internal/adapters/sqlite"
	"orderdesk/internal/adapters/statefile"
	"orderdesk/internal/application"
	"orderdesk/internal/config"
	"orderdesk/internal/ingest"
	"orderdesk/internal/ports"
)

var (
	watchDir string
	cfg      config.Config
	logger   *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "orderdesk-cli",
	Short: "CLI for the orderdesk order tracker",
	Long: `orderdesk-cli works with the same order files and state as the
orderdesk desktop app.

It provides commands to scan the orders directory, watch it for new
order files, and inspect tracked and canceled orders.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if watchDir != "" {
			cfg.WatchDir = watchDir
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: config.AppName})
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&watchDir, "dir", "d", "", "orders directory (defaults to configured watch_dir)")
}

// newPipeline builds an ingestion pipeline from the loaded config.
func newPipeline() *ingest.Pipeline {
	return ingest.NewPipeline(ingest.Options{
		FallbackDirs: cfg.FallbackDirs,
		ReservedFile: statefile.DefaultFileName,
		Strategy:     cfg.WatchStrategy,
		PollInterval: cfg.PollInterval,
		SettleDelay:  cfg.SettleDelay,
		Logger:       logger,
	})
}

// newBoard builds a board backed by the configured snapshot store and
// archive. The archive may be nil when it cannot be opened; it is
// returned as the interface so a failed open stays a nil interface.
func newBoard() (*application.Board, ports.CanceledArchive) {
	store := statefile.New(cfg.SnapshotFile)
	var archive ports.CanceledArchive
	if a, err := sqlite.Open(cfg.ArchiveFile); err != nil {
		logger.Warn("canceled-order archive unavailable", "err", err)
	} else {
		archive = a
	}
	board := application.NewBoard(store, archive, cfg.WatchDir, logger)
	if err := board.Load(); err != nil {
		logger.Error("restoring order state", "err", err)
	}
	return board, archive
}
