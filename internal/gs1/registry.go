// Package gs1 decodes GS1 Application Identifier payloads scanned from
// medicine packaging into structured intake fields (GTIN, expiry date,
// lot number, serial number).
//
// Decoding is a pure computation over the input string: no I/O, no
// logging, no shared mutable state. The package-level AI registry is
// built once and read-only, so Decode is safe for unlimited concurrent
// use.
package gs1

// AIDefinition describes a single GS1 Application Identifier.
type AIDefinition struct {
	// Code is the numeric AI prefix, 2-4 digits.
	Code string
	// FixedLength is the exact payload length for fixed-length AIs.
	// Zero means the value is variable-length and runs until a
	// separator, a following AI, or end of input.
	FixedLength int
	// Label is a human-readable name. Not used by the decoder itself.
	Label string
}

// Variable reports whether the AI carries a variable-length value.
func (d AIDefinition) Variable() bool { return d.FixedLength == 0 }

// registry holds the AIs needed for medicine packaging. Built once at
// init, never mutated afterwards.
var registry = map[string]AIDefinition{
	"01": {Code: "01", FixedLength: 14, Label: "GTIN"},
	"17": {Code: "17", FixedLength: 6, Label: "Expiry date (YYMMDD)"},
	"11": {Code: "11", FixedLength: 6, Label: "Production date (YYMMDD)"},
	"10": {Code: "10", Label: "Batch/lot number"},
	"21": {Code: "21", Label: "Serial number"},
	"30": {Code: "30", Label: "Count of items"},
}

// aiCodeWidths are the code lengths probed at each cursor position,
// shortest first. Only 2-digit codes are populated today, but GS1
// defines 3- and 4-digit AIs (e.g. 310n net weight), so the probe
// keeps those widths so the tokenizer never has to change when they
// are added.
var aiCodeWidths = []int{2, 3, 4}

// LookupAI probes the registry for an AI code starting at pos in s.
// Widths 2, 3 and 4 are tried in order and the shortest match wins:
// a longest-match policy could swallow digits that belong to the
// following field.
func LookupAI(s string, pos int) (AIDefinition, bool) {
	for _, w := range aiCodeWidths {
		if pos+w > len(s) {
			break
		}
		if def, ok := registry[s[pos:pos+w]]; ok {
			return def, true
		}
	}
	return AIDefinition{}, false
}
