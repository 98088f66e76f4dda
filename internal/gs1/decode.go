package gs1

import "time"

// ParsedRecord is the structured result of decoding one scanned
// payload. Raw and IsGS1 are always set. The remaining fields are
// pointers so that "not present" is explicit rather than an empty
// string standing in for unknown. A record is built fresh on every
// Decode call and never mutated after it is returned.
type ParsedRecord struct {
	// Raw is the original input, untouched.
	Raw string
	// IsGS1 reports whether the payload matched a known GS1 shape.
	IsGS1 bool
	// GTIN is the 14-digit product code (AI 01), if present.
	GTIN *string
	// ExpiryRaw is the 6-digit YYMMDD expiry string (AI 17), if
	// present, even when it is not a valid calendar date.
	ExpiryRaw *string
	// Expiry is the decoded expiry date. Nil when ExpiryRaw is
	// absent or does not name a real calendar date.
	Expiry *time.Time
	// Batch is the lot number (AI 10), whitespace-trimmed.
	Batch *string
	// Serial is the serial number (AI 21), whitespace-trimmed.
	Serial *string
}

// Decode turns a raw scanner payload into a ParsedRecord. It never
// returns an error and never panics: malformed input degrades to a
// partial record, and a payload matching no GS1 shape comes back with
// only Raw set and IsGS1 false. Safe for concurrent use.
func Decode(raw string) ParsedRecord {
	rec := ParsedRecord{Raw: raw}

	normalized := Normalize(raw)
	format := Classify(normalized)
	if format == FormatUnknown {
		return rec
	}
	rec.IsGS1 = true

	fields := extract(normalized, format)

	if v, ok := fields["01"]; ok {
		rec.GTIN = &v
	}
	if v, ok := fields["10"]; ok {
		rec.Batch = &v
	}
	if v, ok := fields["21"]; ok {
		rec.Serial = &v
	}
	if v, ok := fields["17"]; ok {
		rec.ExpiryRaw = &v
		if t, valid := DecodeYYMMDD(v); valid {
			rec.Expiry = &t
		}
	}
	return rec
}

// extract dispatches to the extractor for the classified format. Any
// panic out of the extraction machinery is downgraded to a partial
// (possibly empty) field set; a scan must never block intake, since
// the operator can always fall back to typing the fields in.
func extract(normalized string, format Format) (fields map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			if fields == nil {
				fields = map[string]string{}
			}
		}
	}()
	switch format {
	case FormatParenthesized:
		return extractParenthesized(normalized)
	case FormatBracketless:
		return tokenize(normalized)
	default:
		return map[string]string{}
	}
}
