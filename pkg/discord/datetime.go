package discord

import (
	"time"
)

// FormatElapsed renders the run duration rounded to the second; sub-second
// runs read "<1s".
func FormatElapsed(start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return ""
	}
	d := end.Sub(start).Round(time.Second)
	if d <= 0 {
		return "<1s"
	}
	return d.String()
}

// FormatRunTime renders t for console listings, in local time.
func FormatRunTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
