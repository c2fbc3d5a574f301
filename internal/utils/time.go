package utils

import (
	"strings"
	"time"
)

const (
	LayoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// Now is swapped by tests that need a fixed clock.
var Now = func() time.Time { return time.Now() }

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return Now().UTC()
}

// Timestamp is the RFC3339 UTC string stored in created_at/updated_at columns.
func Timestamp() string {
	return NowUTC().Format(time.RFC3339)
}

// Today returns the local calendar date.
func Today() string {
	return Now().In(time.Local).Format(LayoutDate)
}

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(LayoutDate, strings.TrimSpace(s), time.Local)
}

// ValidDate reports whether s is a real YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(LayoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// HumanTimestamp turns a stored RFC3339 value into local "YYYY-MM-DD HH:MM:SS";
// unparsable input is returned unchanged.
func HumanTimestamp(s string) string {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return FormatDateTime(t)
}
