// This file provides the intake history command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent intake records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		intakes, err := st.ListIntakes(historyLimit)
		if err != nil {
			return err
		}
		if len(intakes) == 0 {
			fmt.Println("No intake records yet.")
			return nil
		}
		for _, in := range intakes {
			gtin := in.GTIN
			if gtin == "" {
				gtin = "-"
			}
			expiry := in.ExpiryDate
			if expiry == "" {
				expiry = "-"
			}
			lot := in.LotNumber
			if lot == "" {
				lot = "-"
			}
			fmt.Printf("#%-5d  %s  gtin=%-14s  expiry=%-10s  lot=%s\n",
				in.ID, in.ScannedAt.Format("2006-01-02 15:04"), gtin, expiry, lot)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum records to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}
