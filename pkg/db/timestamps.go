package db

import "time"

// TimestampLayout is the layout of CreatedAt and Timestamp fields
const TimestampLayout = time.RFC3339

// FormatTimestamp formats t in UTC for storage in a record
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a record timestamp
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
