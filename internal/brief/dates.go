package brief

import (
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical storage format for brief dates.
const DateLayout = "2006-01-02"

// Today returns today's date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(DateLayout)
}

// CanonicalDate converts a textual date into YYYY-MM-DD. Dates already in
// that layout are returned unchanged. Historical briefs were stored with
// inconsistent formats ("September 7, 2025", RFC 3339 timestamps), which is
// why lookups go through this.
func CanonicalDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return t.Format(DateLayout), true
}

// ParseDate parses a brief date in any of the formats producers have used.
// Timestamps keep their own offset so the calendar day is the one the
// producer wrote.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDateDisplay formats a brief date for humans: "Sep 07, 2025".
// Unparseable dates are returned as given.
func FormatDateDisplay(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 02, 2006")
}
