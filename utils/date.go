package utils

import (
	"errors"
	"strings"
	"time"
)

const (
	// ISODateLayout is the wire format for dates on our own API and on the
	// booking-engine redirect ("2025-12-27").
	ISODateLayout = "2006-01-02"

	// CompactDateLayout is the day-rate feed's date format ("20251227"),
	// used both for query parameters and for the response map keys.
	CompactDateLayout = "20060102"
)

// ParseISODate parses a YYYY-MM-DD string into a UTC date.
func ParseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func FormatISODate(t time.Time) string {
	return t.Format(ISODateLayout)
}

// FormatCompactDate renders a date as YYYYMMDD for the day-rate feed.
func FormatCompactDate(t time.Time) string {
	return t.Format(CompactDateLayout)
}

// ISOToCompact converts "2025-12-27" to "20251227" without validating.
func ISOToCompact(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "-", "")
}

// CompactToISO converts "20251227" to "2025-12-27". Input that does not
// parse as a compact date comes back unchanged.
func CompactToISO(s string) string {
	t, err := time.Parse(CompactDateLayout, strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return t.Format(ISODateLayout)
}
