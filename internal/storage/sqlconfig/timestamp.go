package sqlconfig

import "time"

// Timestamp returns the form stored in a TIMESTAMP (without time zone) column: the wall
// clock kept, placed in UTC and cut to the column's microsecond precision.
func Timestamp(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC).Truncate(time.Microsecond)
}
