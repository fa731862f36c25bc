package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat12Hour(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "afternoon with seconds", input: "14:30:00", want: "2:30 PM"},
		{name: "afternoon without seconds", input: "14:30", want: "2:30 PM"},
		{name: "morning", input: "09:05:00", want: "9:05 AM"},
		{name: "midnight", input: "00:00", want: "12:00 AM"},
		{name: "noon", input: "12:00:00", want: "12:00 PM"},
		{name: "empty", input: "", want: ""},
		{name: "garbage returned unchanged", input: "not-a-time", want: "not-a-time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format12Hour(tt.input))
		})
	}
}

func TestFormatDateReadable(t *testing.T) {
	assert.Equal(t, "December 8, 2025", FormatDateReadable("2025-12-08"))
	assert.Equal(t, "January 1, 2026", FormatDateReadable("2026-01-01"))
	assert.Equal(t, "", FormatDateReadable(""))
	assert.Equal(t, "12/08/2025", FormatDateReadable("12/08/2025"))
}

func TestFormatDateTimeManila(t *testing.T) {
	// 14:30 UTC is 22:30 in Manila
	utc := time.Date(2025, 12, 8, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "December 8, 2025 at 10:30 PM", FormatDateTimeManila(utc))
	assert.Equal(t, "", FormatDateTimeManila(time.Time{}))
}
