package scheduling

import (
	"fmt"
	"time"
)

// Reference timezone for every date/time comparison (UTC+8).
var ManilaTZ = time.FixedZone("Asia/Manila", 8*60*60)

// Now returns the current wall-clock time in the reference timezone.
var Now = func() time.Time { return time.Now().In(ManilaTZ) }

// MalformedScheduleError reports an unparseable stored date or time value.
// Schedule fields never default silently: a bad value always surfaces.
type MalformedScheduleError struct {
	Field string
	Value string
}

func (e *MalformedScheduleError) Error() string {
	return fmt.Sprintf("malformed schedule %s: %q", e.Field, e.Value)
}

// ParseClock parses a time-of-day accepting both "HH:MM:SS" and "HH:MM".
func ParseClock(field, value string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("15:04", value); err == nil {
		return t, nil
	}
	return time.Time{}, &MalformedScheduleError{Field: field, Value: value}
}

// ParseDate parses a calendar date in "YYYY-MM-DD" form.
func ParseDate(field, value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &MalformedScheduleError{Field: field, Value: value}
	}
	return d, nil
}
