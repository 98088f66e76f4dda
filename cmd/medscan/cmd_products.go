// This file provides product master-data commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage medicine master data",
}

var productsImportCmd = &cobra.Command{
	Use:   "import [csv]",
	Short: "Import products from a CSV file",
	Long: `Imports master data from a CSV with columns:
  gtin, jan_code, yj_code, product_name, package_spec, maker_name
A header row is detected and skipped. Existing GTINs are updated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.ImportProductsCSV(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d product(s)\n", n)
		return nil
	},
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known products",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		products, err := st.ListProducts()
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("No products. Import master data with 'medscan products import'.")
			return nil
		}
		for _, p := range products {
			fmt.Printf("%-14s  %-13s  %s", p.GTIN, p.JANCode, p.ProductName)
			if p.PackageSpec != "" {
				fmt.Printf(" (%s)", p.PackageSpec)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	productsCmd.AddCommand(productsImportCmd)
	productsCmd.AddCommand(productsListCmd)
	rootCmd.AddCommand(productsCmd)
}
