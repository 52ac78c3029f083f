package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"orderdesk/internal/domain"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the orders directory once",
	Long: `Scan the orders directory for new JSON and XML order files,
add them to the tracked state and print what was found.

Files already imported are skipped, as are orders identical to one
already on the board.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		board, archive := newBoard()
		if archive != nil {
			defer archive.Close()
		}
		pipeline := newPipeline()

		orders := pipeline.ScanOnce(cfg.WatchDir)
		admitted := board.Admit(orders)

		for _, o := range admitted {
			fmt.Printf("%-12s %-16s %s  %s\n",
				o.TypeOrDefault(), o.SourceOrDefault(),
				domain.FormatDate(o.OrderDate), domain.FormatTotal(o))
		}
		fmt.Printf("%d order(s) found, %d new order(s) added\n", len(orders), len(admitted))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
