package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manilaTime(y int, m time.Month, d, hr, min int) time.Time {
	return time.Date(y, m, d, hr, min, 0, 0, ManilaTZ)
}

func TestDeriveDisplayStatus(t *testing.T) {
	// Fixed reference clock: 2025-06-15 10:30 Manila.
	now := manilaTime(2025, time.June, 15, 10, 30)

	tests := []struct {
		name   string
		stored string
		date   string
		start  string
		end    string
		want   string
	}{
		{name: "future date stays active", stored: StatusActive, date: "2025-06-16", start: "09:00:00", end: "11:00:00", want: StatusActive},
		{name: "past date completed", stored: StatusActive, date: "2025-06-14", start: "09:00:00", end: "11:00:00", want: StatusCompleted},
		{name: "today before start", stored: StatusActive, date: "2025-06-15", start: "11:00:00", end: "12:00:00", want: StatusActive},
		{name: "today inside window", stored: StatusActive, date: "2025-06-15", start: "10:00:00", end: "11:00:00", want: StatusOngoing},
		{name: "today at exact start", stored: StatusActive, date: "2025-06-15", start: "10:30:00", end: "11:00:00", want: StatusOngoing},
		{name: "today at exact end", stored: StatusActive, date: "2025-06-15", start: "09:00:00", end: "10:30:00", want: StatusOngoing},
		{name: "today after end", stored: StatusActive, date: "2025-06-15", start: "08:00:00", end: "09:00:00", want: StatusCompleted},
		{name: "cancelled passes through", stored: StatusCancelled, date: "2025-06-16", start: "09:00:00", end: "11:00:00", want: StatusCancelled},
		{name: "completed passes through", stored: StatusCompleted, date: "2025-06-16", start: "09:00:00", end: "11:00:00", want: StatusCompleted},
		{name: "short time form accepted", stored: StatusActive, date: "2025-06-15", start: "10:00", end: "11:00", want: StatusOngoing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveDisplayStatus(tt.stored, tt.date, tt.start, tt.end, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveDisplayStatusMalformed(t *testing.T) {
	now := manilaTime(2025, time.June, 15, 10, 30)

	_, err := DeriveDisplayStatus(StatusActive, "garbage", "09:00:00", "11:00:00", now)
	var malformed *MalformedScheduleError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "date", malformed.Field)

	_, err = DeriveDisplayStatus(StatusActive, "2025-06-15", "bad", "11:00:00", now)
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "start_time", malformed.Field)

	// Non-active records never touch the schedule fields.
	got, err := DeriveDisplayStatus(StatusCancelled, "garbage", "bad", "worse", now)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got)
}

func TestDeriveDisplayStatusStable(t *testing.T) {
	// Same inputs, same clock: derivation is a pure function.
	now := manilaTime(2025, time.June, 15, 10, 30)
	first, err := DeriveDisplayStatus(StatusActive, "2025-06-15", "10:00:00", "11:00:00", now)
	require.NoError(t, err)
	second, err := DeriveDisplayStatus(StatusActive, "2025-06-15", "10:00:00", "11:00:00", now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
