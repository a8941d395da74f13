package sqlite

import (
	"time"
)

// timeLayout is fixed-width so that TEXT columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimeForDB formats a time.Time value as a fixed-width UTC string for database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTimeFromDB parses a timestamp string from the database. Any RFC3339
// value is accepted; the result is always UTC.
func ParseTimeFromDB(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
