package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"orderdesk/internal/adapters/sqlite"
	"orderdesk/internal/adapters/statefile"
	"orderdesk/internal/adapters/tui"
	"orderdesk/internal/application"
	"orderdesk/internal/config"
	"orderdesk/internal/ingest"
	"orderdesk/internal/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger()

	store := statefile.New(cfg.SnapshotFile)

	// Keep the interface nil on failure; a typed nil would slip past
	// the board's archive check.
	var archive ports.CanceledArchive
	if a, err := sqlite.Open(cfg.ArchiveFile); err != nil {
		logger.Warn("canceled-order archive unavailable", "err", err)
	} else {
		archive = a
		defer a.Close()
	}

	board := application.NewBoard(store, archive, cfg.WatchDir, logger)
	pipeline := ingest.NewPipeline(ingest.Options{
		FallbackDirs: cfg.FallbackDirs,
		ReservedFile: statefile.DefaultFileName,
		Strategy:     cfg.WatchStrategy,
		PollInterval: cfg.PollInterval,
		SettleDelay:  cfg.SettleDelay,
		Logger:       logger,
	})

	// Restore saved state when there is one; otherwise do an initial
	// directory scan.
	if store.Has() {
		if err := board.Load(); err != nil {
			logger.Error("restoring order state", "err", err)
		}
	} else {
		board.Admit(pipeline.ScanOnce(cfg.WatchDir))
	}

	app := tui.NewApp(board, pipeline, cfg.WatchDir)

	if err := pipeline.StartWatching(cfg.WatchDir); err != nil {
		logger.Error("starting watcher", "err", err)
	}
	defer pipeline.StopWatching()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger keeps the TUI screen clean: logs go to the file named by
// ORDERDESK_LOG, or nowhere.
func newLogger() *log.Logger {
	path := os.Getenv("ORDERDESK_LOG")
	if path == "" {
		return log.New(io.Discard)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard)
	}
	return log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: config.AppName})
}
