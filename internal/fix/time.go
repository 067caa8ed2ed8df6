package fix

import (
	"fmt"
	"time"
)

const (
	utcTimestampSeconds = "20060102-15:04:05"
	utcTimestampMillis  = "20060102-15:04:05.000"
	utcTimestampMicros  = "20060102-15:04:05.000000"
	utcTimestampNanos   = "20060102-15:04:05.000000000"
)

// FormatUTCTimestamp renders t as a millisecond UTCTimestamp.
func FormatUTCTimestamp(t time.Time) string {
	return t.UTC().Format(utcTimestampMillis)
}

// ParseUTCTimestamp accepts second through nanosecond precision.
func ParseUTCTimestamp(v string) (time.Time, error) {
	var layout string
	switch len(v) {
	case len(utcTimestampSeconds):
		layout = utcTimestampSeconds
	case len(utcTimestampMillis):
		layout = utcTimestampMillis
	case len(utcTimestampMicros):
		layout = utcTimestampMicros
	case len(utcTimestampNanos):
		layout = utcTimestampNanos
	default:
		return time.Time{}, fmt.Errorf("fix: invalid UTCTimestamp %q", v)
	}
	return time.ParseInLocation(layout, v, time.UTC)
}
