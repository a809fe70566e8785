package utils

import (
	"time"
)

const layoutDateTime = "2006-01-02 15:04:05"

// NowUTC returns current time in UTC truncated to milliseconds, the
// precision of the DATETIME(3) timestamp columns.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}
