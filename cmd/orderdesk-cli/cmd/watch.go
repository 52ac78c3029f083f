package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"orderdesk/internal/domain"
	"orderdesk/internal/ingest"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the orders directory for new order files",
	Long: `Watch the orders directory and print each newly discovered
order until interrupted with ctrl+c.

Discovered orders are added to the shared tracked state, so the
desktop app picks them up on its next load.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		board, archive := newBoard()
		if archive != nil {
			defer archive.Close()
		}
		pipeline := newPipeline()

		sub := pipeline.Subscribe(16)
		defer pipeline.Unsubscribe(sub)

		if err := pipeline.StartWatching(cfg.WatchDir); err != nil {
			return err
		}
		defer pipeline.StopWatching()

		fmt.Printf("watching %s (%s), ctrl+c to stop\n", cfg.WatchDir, pipeline.State())

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case <-sigCh:
				return nil
			case ev, ok := <-sub.Events():
				if !ok {
					return nil
				}
				if ev.Kind != ingest.EventOrdersDiscovered {
					continue
				}
				for _, o := range board.Admit(ev.Orders) {
					fmt.Printf("%-12s %-16s %s  %s\n",
						o.TypeOrDefault(), o.SourceOrDefault(),
						domain.FormatDate(o.OrderDate), domain.FormatTotal(o))
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
