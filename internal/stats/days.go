// Package stats contains the pure ticket computations: completion-day
// arithmetic and the per-status summary shown above the ticket table.
package stats

import (
	"strings"
	"time"
)

// Days returns the number of whole days between two date-like values,
// floored at zero. The second return is false when either value is absent or
// unparseable; callers treat that as "no data", never as a failure.
//
// Accepted inputs: nil, time.Time, *time.Time, string, *string. Strings may
// be "YYYY-MM-DD" or "YYYY-MM-DDTHH:MM:SS..."; only the first ten characters
// are significant, time-of-day and timezone are discarded.
func Days(created, completed any) (int, bool) {
	from, ok := toDate(created)
	if !ok {
		return 0, false
	}
	to, ok := toDate(completed)
	if !ok {
		return 0, false
	}
	diff := int(to.Sub(from) / (24 * time.Hour))
	if diff < 0 {
		diff = 0
	}
	return diff, true
}

func toDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return truncate(t)
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return truncate(*t)
	case string:
		return parseDate(t)
	case *string:
		if t == nil {
			return time.Time{}, false
		}
		return parseDate(*t)
	default:
		return time.Time{}, false
	}
}

func truncate(t time.Time) (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
