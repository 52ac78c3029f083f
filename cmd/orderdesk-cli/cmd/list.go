package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"orderdesk/internal/domain"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked orders",
	Long: `List the orders currently on the board.

Examples:
  orderdesk-cli list
  orderdesk-cli list --status pending
  orderdesk-cli list --status completed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		board, archive := newBoard()
		if archive != nil {
			defer archive.Close()
		}

		orders := board.All()
		if listStatus != "" {
			status := domain.ParseStatus(listStatus)
			filtered := orders[:0]
			for _, o := range orders {
				if o.Status == status {
					filtered = append(filtered, o)
				}
			}
			orders = filtered
		}

		if len(orders) == 0 {
			fmt.Println("no orders")
			return nil
		}
		for _, o := range orders {
			fmt.Printf("%-12s %-12s %-16s %s  %s\n",
				o.Status, o.TypeOrDefault(), o.SourceOrDefault(),
				domain.FormatDate(o.OrderDate), domain.FormatTotal(o))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status (pending, in_progress, completed)")
	rootCmd.AddCommand(listCmd)
}
