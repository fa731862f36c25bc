package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"cesms_backend/internals/features/events/events/model"
)

func TestToEventResponse(t *testing.T) {
	limit := 50
	reqID := uuid.New()
	deptID := uuid.New()
	ev := model.EventModel{
		EventID:               uuid.New(),
		EventRequestID:        &reqID,
		EventDepartmentID:     &deptID,
		EventName:             "Intramurals Opening",
		EventDescription:      "Opening ceremony",
		EventLocation:         "Gymnasium",
		EventDate:             "2025-12-08",
		EventStartTime:        "13:30:00",
		EventEndTime:          "17:00:00",
		EventParticipantLimit: &limit,
		EventStatus:           "Active",
	}

	resp := ToEventResponse(&ev, "Ongoing", 42)

	assert.Equal(t, ev.EventID.String(), resp.EventID)
	assert.Equal(t, reqID.String(), resp.EventRequestID)
	assert.Equal(t, deptID.String(), resp.DepartmentID)
	assert.Equal(t, "December 8, 2025", resp.EventDateText)
	assert.Equal(t, "1:30 PM - 5:00 PM", resp.EventTimeText)
	assert.Equal(t, "Ongoing", resp.Status)
	assert.Equal(t, int64(42), resp.RegisteredCount)
	assert.Equal(t, &limit, resp.ParticipantLimit)
}

func TestToEventResponseWithoutOptionalFields(t *testing.T) {
	ev := model.EventModel{
		EventID:        uuid.New(),
		EventName:      "University Week",
		EventLocation:  "Quadrangle",
		EventDate:      "2026-01-05",
		EventStartTime: "08:00:00",
		EventEndTime:   "12:00:00",
		EventStatus:    "Active",
	}

	resp := ToEventResponse(&ev, "Active", 0)

	assert.Empty(t, resp.EventRequestID)
	assert.Empty(t, resp.DepartmentID)
	assert.Nil(t, resp.ParticipantLimit)
	assert.True(t, ev.IsFreeForAll())
}
