package gs1

import "regexp"

// Format is the detected encoding of a normalized payload.
type Format int

const (
	// FormatUnknown means the payload matches no known GS1 shape.
	// Most plain linear barcodes land here; it is not an error.
	FormatUnknown Format = iota
	// FormatParenthesized is the human-readable form with each AI
	// wrapped in parentheses: (01)...(17)...
	FormatParenthesized
	// FormatBracketless is the raw tokenized form where AIs and
	// values run together, delimited only by fixed lengths and the
	// group separator.
	FormatBracketless
)

func (f Format) String() string {
	switch f {
	case FormatParenthesized:
		return "parenthesized"
	case FormatBracketless:
		return "bracketless"
	default:
		return "unknown"
	}
}

var (
	parenPattern = regexp.MustCompile(`\((01|17|11|10|21|30)\)`)
	// The bracketless form is only parseable when it opens with AI 01
	// and its 14-digit GTIN: that fixed-length anchor is what lets
	// the tokenizer walk the rest without explicit markers.
	bracketlessPattern = regexp.MustCompile(`^01\d{14}`)
)

// Classify decides which extractor can handle a normalized payload.
// When both shapes match, the parenthesized form wins: explicit
// markers beat a heuristic prefix check.
func Classify(normalized string) Format {
	if parenPattern.MatchString(normalized) {
		return FormatParenthesized
	}
	if bracketlessPattern.MatchString(normalized) {
		return FormatBracketless
	}
	return FormatUnknown
}
