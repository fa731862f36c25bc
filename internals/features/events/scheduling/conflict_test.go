package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, v string) time.Time {
	t.Helper()
	parsed, err := ParseClock("t", v)
	require.NoError(t, err)
	return parsed
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		e1   string
		s2   string
		e2   string
		want bool
	}{
		{name: "boundary touch is not a conflict", s1: "10:00", e1: "11:00", s2: "11:00", e2: "12:00", want: false},
		{name: "boundary touch reversed", s1: "11:00", e1: "12:00", s2: "10:00", e2: "11:00", want: false},
		{name: "partial overlap", s1: "10:00", e1: "11:00", s2: "10:30", e2: "11:30", want: true},
		{name: "containment", s1: "09:00", e1: "12:00", s2: "10:00", e2: "11:00", want: true},
		{name: "identical slots", s1: "10:00", e1: "11:00", s2: "10:00", e2: "11:00", want: true},
		{name: "disjoint", s1: "08:00", e1: "09:00", s2: "13:00", e2: "14:00", want: false},
		{name: "one minute overlap", s1: "10:00", e1: "11:01", s2: "11:00", e2: "12:00", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlaps(
				mustClock(t, tt.s1), mustClock(t, tt.e1),
				mustClock(t, tt.s2), mustClock(t, tt.e2),
			)
			assert.Equal(t, tt.want, got)
			// Overlap is symmetric.
			assert.Equal(t, tt.want, overlaps(
				mustClock(t, tt.s2), mustClock(t, tt.e2),
				mustClock(t, tt.s1), mustClock(t, tt.e1),
			))
		})
	}
}

func TestMatchSlot(t *testing.T) {
	d := &Detector{}
	candStart := mustClock(t, "10:00")
	candEnd := mustClock(t, "11:00")

	t.Run("overlapping record yields tagged conflict", func(t *testing.T) {
		c, err := d.matchSlot(candStart, candEnd, slotRecord{
			Name:      "Acquaintance Party",
			StartTime: "10:30:00",
			EndTime:   "11:30:00",
		}, ConflictApprovedEvent)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, ConflictApprovedEvent, c.Type)
		assert.Equal(t, "Acquaintance Party", c.Name)
		assert.Equal(t, "10:30 AM - 11:30 AM", c.Time)
	})

	t.Run("adjacent record is not a conflict", func(t *testing.T) {
		c, err := d.matchSlot(candStart, candEnd, slotRecord{
			Name:      "Org Fair",
			StartTime: "11:00:00",
			EndTime:   "12:00:00",
		}, ConflictPendingRequest)
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("malformed stored time surfaces", func(t *testing.T) {
		_, err := d.matchSlot(candStart, candEnd, slotRecord{
			Name:      "Broken",
			StartTime: "banana",
			EndTime:   "12:00:00",
		}, ConflictApprovedEvent)
		require.Error(t, err)
		var malformed *MalformedScheduleError
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestParseFailurePolicy(t *testing.T) {
	parseErr := &MalformedScheduleError{Field: "start_time", Value: "??"}

	t.Run("fail loud by default", func(t *testing.T) {
		d := &Detector{FailOpen: false}
		conflict, conflicts, err := d.parseFailure(parseErr)
		assert.False(t, conflict)
		assert.Nil(t, conflicts)
		assert.ErrorIs(t, err, parseErr)
	})

	t.Run("fail open blocks the slot", func(t *testing.T) {
		d := &Detector{FailOpen: true}
		conflict, conflicts, err := d.parseFailure(parseErr)
		assert.True(t, conflict)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "error", conflicts[0].Type)
		assert.NoError(t, err)
	})
}

func TestConflictErrorMessage(t *testing.T) {
	err := &ConflictError{Conflicts: []Conflict{
		{Type: ConflictApprovedEvent, Name: "Sportsfest Opening", Time: "8:00 AM - 10:00 AM"},
		{Type: ConflictPendingRequest, Name: "Seminar", Time: "9:00 AM - 11:00 AM"},
	}}
	assert.Equal(t, "schedule conflict detected with: Sportsfest Opening, Seminar", err.Error())
}
