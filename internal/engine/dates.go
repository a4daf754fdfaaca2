package engine

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseDate accepts a plain calendar date or an RFC 3339 timestamp and
// returns the calendar date at UTC midnight.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
