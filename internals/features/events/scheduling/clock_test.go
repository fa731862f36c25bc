package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantHr  int
		wantMin int
		wantErr bool
	}{
		{name: "full form", value: "14:30:00", wantHr: 14, wantMin: 30},
		{name: "short form", value: "14:30", wantHr: 14, wantMin: 30},
		{name: "midnight", value: "00:00:00", wantHr: 0, wantMin: 0},
		{name: "end of day", value: "23:59:59", wantHr: 23, wantMin: 59},
		{name: "empty", value: "", wantErr: true},
		{name: "garbage", value: "not-a-time", wantErr: true},
		{name: "out of range hour", value: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock("start_time", tt.value)
			if tt.wantErr {
				require.Error(t, err)
				var malformed *MalformedScheduleError
				require.True(t, errors.As(err, &malformed))
				assert.Equal(t, "start_time", malformed.Field)
				assert.Equal(t, tt.value, malformed.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHr, got.Hour())
			assert.Equal(t, tt.wantMin, got.Minute())
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date", "2025-12-08")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.December, d.Month())
	assert.Equal(t, 8, d.Day())

	_, err = ParseDate("date", "12/08/2025")
	var malformed *MalformedScheduleError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "date", malformed.Field)
}

func TestMalformedScheduleErrorMessage(t *testing.T) {
	err := &MalformedScheduleError{Field: "end_time", Value: "banana"}
	assert.Equal(t, `malformed schedule end_time: "banana"`, err.Error())
}
