package helper

import (
	"time"
)

// All user-facing times are presented in Philippine time (UTC+8).
var ManilaTZ = time.FixedZone("Asia/Manila", 8*60*60)

// Format12Hour converts "14:30:00" or "14:30" to "2:30 PM".
// Unparseable input is returned unchanged.
func Format12Hour(timeStr string) string {
	if timeStr == "" {
		return ""
	}
	t, err := time.Parse("15:04:05", timeStr)
	if err != nil {
		t, err = time.Parse("15:04", timeStr)
		if err != nil {
			return timeStr
		}
	}
	return t.Format("3:04 PM")
}

// FormatDateReadable converts "2025-12-08" to "December 8, 2025".
func FormatDateReadable(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dateStr
	}
	return d.Format("January 2, 2006")
}

// FormatDateTimeManila renders a timestamp in Philippine time,
// e.g. "December 8, 2025 at 10:30 PM".
func FormatDateTimeManila(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(ManilaTZ).Format("January 2, 2006 at 3:04 PM")
}

// FormatAttendanceTime renders a check-in timestamp, e.g. "Dec 08, 2025 10:30 PM".
func FormatAttendanceTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(ManilaTZ).Format("Jan 02, 2006 3:04 PM")
}
