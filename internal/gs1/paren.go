package gs1

import "strings"

// extractParenthesized pulls AI values out of the parenthesized form
// by searching for each literal "(code)" marker. Missing markers
// simply leave the field out of the result. The returned map is keyed
// by AI code.
func extractParenthesized(s string) map[string]string {
	fields := make(map[string]string)
	for code, def := range registry {
		marker := "(" + code + ")"
		idx := strings.Index(s, marker)
		if idx < 0 {
			continue
		}
		start := idx + len(marker)
		if start >= len(s) {
			continue
		}
		var value string
		if !def.Variable() {
			// Fixed-length values take exactly the next N
			// characters regardless of what they contain.
			end := start + def.FixedLength
			if end > len(s) {
				end = len(s)
			}
			value = s[start:end]
		} else {
			// Variable-length values run to the next marker or
			// separator, whichever comes first.
			end := len(s)
			if i := strings.IndexByte(s[start:], '('); i >= 0 {
				end = start + i
			}
			if i := strings.IndexByte(s[start:], byte(Separator)); i >= 0 && start+i < end {
				end = start + i
			}
			value = strings.TrimSpace(strings.Trim(s[start:end], string(Separator)))
		}
		if value == "" {
			continue
		}
		fields[code] = value
	}
	return fields
}
