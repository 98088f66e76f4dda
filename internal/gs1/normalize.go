package gs1

import "strings"

// Separator is the reserved field delimiter (ASCII Group Separator).
// Every control character in the raw input is folded onto it during
// normalization, so downstream stages only ever see this one
// non-printable rune.
const Separator = '\x1d'

// Normalize prepares a raw scanner payload for classification: control
// characters (0-31 and 127) are replaced with Separator, surrounding
// whitespace is trimmed, and leading/trailing separator runs are
// stripped so a stray control byte at either end cannot produce an
// empty first or last field.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r < 32 || r == 127 {
			b.WriteRune(Separator)
		} else {
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	return strings.Trim(s, string(Separator))
}
