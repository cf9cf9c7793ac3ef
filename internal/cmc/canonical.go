package cmc

import (
	"fmt"
	"time"
)

// Canonical data formats used by the vendor when a cursor is opened
// with FlagCanonical.
const (
	// CanonicalDateLayout is yyyymmdd.
	CanonicalDateLayout = "20060102"
	// CanonicalTimeLayout is hh:mm, 24 hour.
	CanonicalTimeLayout = "15:04"
)

// CanonicalDate formats a date the way canonical-mode cursors emit and
// accept them.
func CanonicalDate(t time.Time) string {
	return t.Format(CanonicalDateLayout)
}

// CanonicalTime formats a time of day in canonical form.
func CanonicalTime(t time.Time) string {
	return t.Format(CanonicalTimeLayout)
}

// ParseCanonicalDate parses a canonical yyyymmdd value, falling back
// to ISO dates for fields that were not read in canonical mode.
func ParseCanonicalDate(v string) (time.Time, error) {
	if t, err := time.Parse(CanonicalDateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("not a commence date: %q", v)
}

// ParseCanonicalTime parses a canonical hh:mm value.
func ParseCanonicalTime(v string) (time.Time, error) {
	t, err := time.Parse(CanonicalTimeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a commence time: %q", v)
	}
	return t, nil
}
