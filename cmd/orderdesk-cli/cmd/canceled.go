package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"orderdesk/internal/domain"
)

var canceledClear bool

var canceledCmd = &cobra.Command{
	Use:   "canceled",
	Short: "List canceled orders",
	Long:  `List the orders archived by cancellation, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, archive := newBoard()
		if archive == nil {
			return fmt.Errorf("canceled-order archive unavailable")
		}
		defer archive.Close()

		if canceledClear {
			if err := archive.Clear(); err != nil {
				return err
			}
			fmt.Println("archive cleared")
			return nil
		}

		records, err := archive.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no canceled orders")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%-12s %-16s %s  %s\n",
				r.TypeOrDefault(), r.SourceOrDefault(),
				domain.FormatDate(r.OrderDate), domain.FormatTotal(r))
		}
		return nil
	},
}

func init() {
	canceledCmd.Flags().BoolVar(&canceledClear, "clear", false, "delete all archived orders")
	rootCmd.AddCommand(canceledCmd)
}
