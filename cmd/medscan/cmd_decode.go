// This file provides the decode command: parse a payload and print
// the structured fields without touching the database.
package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"medscan/internal/gs1"
)

var decodeJSON bool

var decodeCmd = &cobra.Command{
	Use:   "decode [payload]",
	Short: "Decode a scanned payload and print its fields",
	Long: `Decodes a raw barcode payload and prints the recognized GS1 fields.

The payload is taken verbatim, control characters included, so it can
be piped straight from a keyboard-wedge scanner capture. A payload
matching no GS1 shape prints with gs1: false; that is a normal
outcome for plain linear barcodes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := gs1.Decode(args[0])
		if decodeJSON {
			return printRecordJSON(rec)
		}
		printRecord(rec)
		return nil
	},
}

// recordJSON is the CLI's JSON shape for a decoded record. Absent
// fields are omitted rather than rendered as empty strings.
type recordJSON struct {
	Raw       string  `json:"raw"`
	IsGS1     bool    `json:"gs1"`
	GTIN      *string `json:"gtin,omitempty"`
	ExpiryRaw *string `json:"expiryRaw,omitempty"`
	Expiry    *string `json:"expiry,omitempty"`
	Batch     *string `json:"lotNumber,omitempty"`
	Serial    *string `json:"serialNumber,omitempty"`
}

func toRecordJSON(rec gs1.ParsedRecord) recordJSON {
	out := recordJSON{
		Raw:       rec.Raw,
		IsGS1:     rec.IsGS1,
		GTIN:      rec.GTIN,
		ExpiryRaw: rec.ExpiryRaw,
		Batch:     rec.Batch,
		Serial:    rec.Serial,
	}
	if rec.Expiry != nil {
		s := gs1.FormatDate(*rec.Expiry)
		out.Expiry = &s
	}
	return out
}

func printRecordJSON(rec gs1.ParsedRecord) error {
	data, err := json.MarshalIndent(toRecordJSON(rec), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printRecord(rec gs1.ParsedRecord) {
	fmt.Printf("Raw:     %s\n", rec.Raw)
	fmt.Printf("GS1:     %v\n", rec.IsGS1)
	if rec.GTIN != nil {
		fmt.Printf("GTIN:    %s\n", *rec.GTIN)
	}
	if rec.ExpiryRaw != nil {
		fmt.Printf("Expiry:  %s\n", formatExpiry(rec.ExpiryRaw, rec.Expiry))
	}
	if rec.Batch != nil {
		fmt.Printf("Lot:     %s\n", *rec.Batch)
	}
	if rec.Serial != nil {
		fmt.Printf("Serial:  %s\n", *rec.Serial)
	}
}

// formatExpiry renders the decoded date, or flags the raw digits when
// they do not name a real calendar date.
func formatExpiry(raw *string, decoded *time.Time) string {
	if decoded != nil {
		return gs1.FormatDate(*decoded)
	}
	return fmt.Sprintf("%s (invalid date)", *raw)
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "print the record as JSON")
	rootCmd.AddCommand(decodeCmd)
}
