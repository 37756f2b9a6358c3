// File: utils/localtime.go
package utils

import (
	"fmt"
	"time"
)

// LocalLayout is the wire layout of every date-time exchanged with the
// reservation API. Values are naive wall-clock timestamps.
const LocalLayout = "2006-01-02 15:04:05"

// DateLayout is used for report filters (fecha_desde / fecha_hasta).
const DateLayout = "2006-01-02"

// FormatLocal renders t using its own year/month/day/hour/minute/second fields.
// The location attached to t is never converted; no offset is appended.
// Years outside 0000-9999 do not fit the layout; callers reject them first.
func FormatLocal(t time.Time) string {
	return t.Format(LocalLayout)
}

// FormatDate renders the calendar date of t in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseLocal reads a wire timestamp as a wall-clock value in loc.
// A nil loc means time.Local.
func ParseLocal(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(LocalLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid local date-time %q: %w", value, err)
	}
	return t, nil
}

// ParseUserInput accepts the formats a person is likely to type on the CLI:
// "YYYY-MM-DD HH:mm:ss", "YYYY-MM-DD HH:mm" and "YYYY-MM-DDTHH:mm".
func ParseUserInput(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{LocalLayout, "2006-01-02 15:04", "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q, expected YYYY-MM-DD HH:mm", value)
}
