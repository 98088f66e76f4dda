package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ImportProductsCSV loads product master data from a CSV file with
// columns gtin, jan_code, yj_code, product_name, package_spec,
// maker_name. A header row is detected by a non-numeric first column
// and skipped. Returns the number of rows imported.
func (s *Store) ImportProductsCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open product file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	imported := 0
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("failed to read product row: %w", err)
		}
		if len(rec) < 4 {
			return imported, fmt.Errorf("product row needs at least 4 columns, got %d", len(rec))
		}
		if first {
			first = false
			if !isDigits(strings.TrimSpace(rec[0])) {
				continue // header row
			}
		}
		p := Product{
			GTIN:        strings.TrimSpace(rec[0]),
			JANCode:     strings.TrimSpace(rec[1]),
			YJCode:      strings.TrimSpace(rec[2]),
			ProductName: strings.TrimSpace(rec[3]),
		}
		if len(rec) > 4 {
			p.PackageSpec = strings.TrimSpace(rec[4])
		}
		if len(rec) > 5 {
			p.MakerName = strings.TrimSpace(rec[5])
		}
		if err := s.UpsertProduct(p); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
