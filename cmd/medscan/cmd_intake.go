// This file provides the intake commands: record scans into the
// database, one payload at a time or from a batch file.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"medscan/internal/intake"
)

var intakeCmd = &cobra.Command{
	Use:   "intake [payload]",
	Short: "Decode a payload, match it against master data and record it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		svc := intake.NewService(st, logger, cfg.WorkerCount())
		res, err := svc.Process(args[0])
		if err != nil {
			return err
		}

		printRecord(res.Record)
		if res.Product != nil {
			fmt.Printf("Product: %s", res.Product.ProductName)
			if res.Product.PackageSpec != "" {
				fmt.Printf(" (%s)", res.Product.PackageSpec)
			}
			fmt.Println()
		} else if res.Record.GTIN != nil {
			fmt.Println("Product: not in master data")
		}
		fmt.Printf("Recorded as intake #%d\n", res.IntakeID)
		return nil
	},
}

var intakeFileCmd = &cobra.Command{
	Use:   "intake-file [path]",
	Short: "Ingest a scan batch file (one payload per line)",
	Long: `Reads a scan file produced by a scanner station: one payload per
line, blank lines and lines starting with # ignored. Every line is
recorded, including ones that match no GS1 shape.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		svc := intake.NewService(st, logger, cfg.WorkerCount())
		n, err := svc.ProcessFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %d intake(s) from %s\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(intakeCmd)
	rootCmd.AddCommand(intakeFileCmd)
}
