package league

import (
	"strings"
	"time"
)

// Spreadsheet cells carry dates in whatever format the sheet formatting
// produced. These are the shapes seen in practice.
var sheetDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseSheetDate parses a spreadsheet date cell and normalizes it to UTC
// midnight. Returns ok=false for empty or unparseable cells; date-bearing
// queries drop such rows rather than fail.
func ParseSheetDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range sheetDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), true
		}
	}
	return time.Time{}, false
}

// DayOf truncates an instant to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date the way the sheet stores week starts.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SameDay reports whether two instants fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
