package gs1

import (
	"fmt"
	"time"
)

// DecodeYYMMDD converts a 6-digit GS1 date (two-digit year, month,
// day) into a calendar date. The two-digit year maps unconditionally
// onto 2000-2099; medicine expiry dates do not reach back into the
// previous century, so no sliding window is applied.
//
// Returns ok=false for anything that is not a real calendar date. The
// month/day ranges are checked before construction, and the built
// date is compared back against its inputs so that rollover artifacts
// like "300230" (Feb 30 → Mar 1/2) are rejected instead of silently
// accepted. Never panics.
func DecodeYYMMDD(s string) (time.Time, bool) {
	if len(s) != 6 {
		return time.Time{}, false
	}
	yy, ok1 := atoi2(s[0:2])
	mm, ok2 := atoi2(s[2:4])
	dd, ok3 := atoi2(s[4:6])
	if !ok1 || !ok2 || !ok3 {
		return time.Time{}, false
	}
	if mm < 1 || mm > 12 || dd < 1 || dd > 31 {
		return time.Time{}, false
	}
	year := 2000 + yy
	t := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days instead of failing, so
	// re-derive the components and require an exact match.
	if t.Year() != year || int(t.Month()) != mm || t.Day() != dd {
		return time.Time{}, false
	}
	return t, true
}

// atoi2 parses exactly two ASCII digits.
func atoi2(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// FormatDate renders a decoded expiry date as "YYYY-MM-DD" for form
// population. A zero time renders as the empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// FormatMonthYear splits a decoded date into separate month and year
// strings for two-field date inputs. A zero time yields two empty
// strings.
func FormatMonthYear(t time.Time) (month, year string) {
	if t.IsZero() {
		return "", ""
	}
	return fmt.Sprintf("%02d", int(t.Month())), fmt.Sprintf("%04d", t.Year())
}
