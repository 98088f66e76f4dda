package gs1

import "strings"

// scanState is the tokenizer's finite-state machine state.
type scanState int

const (
	stateScanning scanState = iota
	stateFixedCapture
	stateVariableCapture
	stateTerminated
)

// retainedAIs are the codes whose values survive into the decoded
// record. Other recognized AIs are still consumed so the cursor stays
// aligned, then discarded.
var retainedAIs = map[string]bool{
	"01": true,
	"17": true,
	"10": true,
	"21": true,
}

// endsVariableValue reports whether a variable-length value being
// captured must stop at pos. A newly recognized AI code only
// terminates the value once at least one value character has been
// consumed; without that rule, two AI codes sitting back-to-back with
// no payload between them would be misread as a zero-length value
// followed by garbage.
func endsVariableValue(s string, pos, consumed int) bool {
	if consumed < 1 {
		return false
	}
	_, ok := LookupAI(s, pos)
	return ok
}

// tokenize walks the bracketless form left to right. Unrecognized
// input terminates the scan; everything captured up to that point is
// kept, so a partial result is normal rather than an error.
func tokenize(s string) map[string]string {
	fields := make(map[string]string)
	pos := 0
	state := stateScanning
	var current AIDefinition

	for state != stateTerminated {
		switch state {
		case stateScanning:
			// Some scanners emit a separator even after
			// fixed-length fields; skip any run of them before
			// probing for the next AI.
			for pos < len(s) && s[pos] == byte(Separator) {
				pos++
			}
			if pos >= len(s) {
				state = stateTerminated
				break
			}
			def, ok := LookupAI(s, pos)
			if !ok {
				// Remainder is not parseable; keep what we have.
				state = stateTerminated
				break
			}
			current = def
			pos += len(def.Code)
			if def.Variable() {
				state = stateVariableCapture
			} else {
				state = stateFixedCapture
			}

		case stateFixedCapture:
			end := pos + current.FixedLength
			if end > len(s) {
				end = len(s)
			}
			storeField(fields, current.Code, s[pos:end])
			pos = end
			state = stateScanning

		case stateVariableCapture:
			start := pos
			for pos < len(s) {
				if s[pos] == byte(Separator) {
					break
				}
				if endsVariableValue(s, pos, pos-start) {
					break
				}
				pos++
			}
			storeField(fields, current.Code, s[start:pos])
			// Skip the separator itself; a following AI code is
			// left in place for the next scan iteration.
			if pos < len(s) && s[pos] == byte(Separator) {
				pos++
			}
			state = stateScanning
		}
	}
	return fields
}

// storeField records a captured value if its AI is one we keep.
// Batch and serial values are trimmed of surrounding whitespace.
func storeField(fields map[string]string, code, value string) {
	if !retainedAIs[code] {
		return
	}
	if code == "10" || code == "21" {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		return
	}
	fields[code] = value
}
