package utility

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDateOrTime accepts a bare date (2006-01-02, read as UTC midnight) or RFC3339.
// isDate reports which form was given.
func ParseDateOrTime(s string) (t time.Time, isDate bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
}

// ParseRangeEnd parses an inclusive range end. A bare date covers the whole day.
func ParseRangeEnd(s string) (time.Time, error) {
	t, isDate, err := ParseDateOrTime(s)
	if err != nil {
		return time.Time{}, err
	}
	if isDate {
		return EndOfDay(t), nil
	}
	return t, nil
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last millisecond of t's UTC day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// ParseUpstreamTime parses the RFC3339 timestamps Loyverse sends. Empty strings give nil.
func ParseUpstreamTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t = t.UTC()
	return &t, nil
}

// FirstTime returns the first non-nil time.
func FirstTime(values ...*time.Time) *time.Time {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// ParseRange parses an inclusive [start, end] range. A bare end date covers its whole
// day. start must not be after end.
func ParseRange(start, end string) (time.Time, time.Time, error) {
	from, _, err := ParseDateOrTime(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("startDate: %w", err)
	}
	to, err := ParseRangeEnd(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("endDate: %w", err)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("startDate %s is after endDate %s", from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return from, to, nil
}
