package gs1

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func strp(s string) *string { return &s }

func datep(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDecode(t *testing.T) {
	gs := string(Separator)

	tests := []struct {
		name string
		in   string
		want ParsedRecord
	}{
		{
			name: "parenthesized full",
			in:   "(01)05012345678901(17)260430(10)LOT12345(21)SN987654",
			want: ParsedRecord{
				Raw:       "(01)05012345678901(17)260430(10)LOT12345(21)SN987654",
				IsGS1:     true,
				GTIN:      strp("05012345678901"),
				ExpiryRaw: strp("260430"),
				Expiry:    datep(2026, time.April, 30),
				Batch:     strp("LOT12345"),
				Serial:    strp("SN987654"),
			},
		},
		{
			name: "bracketless with group separators",
			in:   "0105012345678901" + "\x1d" + "17260430" + "\x1d" + "10LOT999",
			want: ParsedRecord{
				Raw:       "0105012345678901" + gs + "17260430" + gs + "10LOT999",
				IsGS1:     true,
				GTIN:      strp("05012345678901"),
				ExpiryRaw: strp("260430"),
				Expiry:    datep(2026, time.April, 30),
				Batch:     strp("LOT999"),
			},
		},
		{
			name: "plain linear barcode is not GS1",
			in:   "5012345678900",
			want: ParsedRecord{Raw: "5012345678900"},
		},
		{
			name: "parenthesized without batch or serial",
			in:   "(01)08712345678906(17)270815",
			want: ParsedRecord{
				Raw:       "(01)08712345678906(17)270815",
				IsGS1:     true,
				GTIN:      strp("08712345678906"),
				ExpiryRaw: strp("270815"),
				Expiry:    datep(2027, time.August, 15),
			},
		},
		{
			name: "invalid embedded date keeps raw and batch",
			in:   "(01)05012345678901(17)261332(10)BATCH123",
			want: ParsedRecord{
				Raw:       "(01)05012345678901(17)261332(10)BATCH123",
				IsGS1:     true,
				GTIN:      strp("05012345678901"),
				ExpiryRaw: strp("261332"),
				Batch:     strp("BATCH123"),
			},
		},
		{
			name: "empty input",
			in:   "",
			want: ParsedRecord{Raw: ""},
		},
		{
			name: "bracketless via keyboard-wedge control byte",
			in:   "0109876543210982" + "\x1d" + "21XYZ001",
			want: ParsedRecord{
				Raw:    "0109876543210982" + gs + "21XYZ001",
				IsGS1:  true,
				GTIN:   strp("09876543210982"),
				Serial: strp("XYZ001"),
			},
		},
		{
			name: "parenthesized beats bracketless when both match",
			in:   "0105012345678901(17)270101",
			want: ParsedRecord{
				Raw:       "0105012345678901(17)270101",
				IsGS1:     true,
				ExpiryRaw: strp("270101"),
				Expiry:    datep(2027, time.January, 1),
			},
		},
		{
			name: "surrounding whitespace trimmed before classification",
			in:   "  (01)05012345678901(17)260430  ",
			want: ParsedRecord{
				Raw:       "  (01)05012345678901(17)260430  ",
				IsGS1:     true,
				GTIN:      strp("05012345678901"),
				ExpiryRaw: strp("260430"),
				Expiry:    datep(2026, time.April, 30),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Idempotent(t *testing.T) {
	in := "(01)05012345678901(17)260430(10)LOT12345(21)SN987654"
	first := Decode(in)
	second := Decode(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated decode differs (-first +second):\n%s", diff)
	}
}

func TestDecode_NonGS1LeavesFieldsUnset(t *testing.T) {
	rec := Decode("4987123456789")
	if rec.IsGS1 {
		t.Error("plain JAN code classified as GS1")
	}
	if rec.GTIN != nil || rec.ExpiryRaw != nil || rec.Expiry != nil || rec.Batch != nil || rec.Serial != nil {
		t.Errorf("non-GS1 record has populated fields: %+v", rec)
	}
	if rec.Raw != "4987123456789" {
		t.Errorf("raw not preserved: %q", rec.Raw)
	}
}

// Decode must stay total: no input may panic or error out of it, since
// the intake workflow falls back to manual entry instead of failing.
func TestDecode_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"(",
		"(01)",
		"(01)123", // short fixed field
		"01",
		"0105", // truncated bracketless prefix
		"(10)(21)",
		"\x00\x01\x02\x1d\x1d",
		"(17)999999",
		"01050123456789",                   // 12 digits only, not bracketless
		"(01)05012345678901(17)26",         // truncated date
		"0105012345678901" + "17260430" + "10", // empty variable value at end
	}
	for _, in := range inputs {
		rec := Decode(in)
		if rec.Raw != in {
			t.Errorf("Decode(%q): raw not preserved", in)
		}
	}
}

// Concurrency smoke check: the registry is the only shared state and
// it is read-only, so parallel decodes must not interfere.
func TestDecode_Concurrent(t *testing.T) {
	in := "(01)05012345678901(17)260430(10)LOT12345(21)SN987654"
	done := make(chan ParsedRecord, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- Decode(in) }()
	}
	want := Decode(in)
	for i := 0; i < 8; i++ {
		got := <-done
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("concurrent decode mismatch (-want +got):\n%s", diff)
		}
	}
}
