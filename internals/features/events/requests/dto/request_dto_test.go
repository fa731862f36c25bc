package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"cesms_backend/internals/features/events/requests/model"
	"cesms_backend/internals/features/events/scheduling"
)

func TestToRequestResponse(t *testing.T) {
	req := model.EventRequestModel{
		EventRequestID:           uuid.New(),
		EventRequestDepartmentID: uuid.New(),
		EventRequestName:         "Job Fair",
		EventRequestLocation:     "Covered Court",
		EventRequestDate:         "2025-11-20",
		EventRequestStartTime:    "09:00:00",
		EventRequestEndTime:      "16:00:00",
		EventRequestRequirements: []byte(`["Waiver","Resume"]`),
		EventRequestStatus:       model.RequestPending,
	}

	conflicts := []scheduling.Conflict{
		{Type: scheduling.ConflictApprovedEvent, Name: "Sportsfest", Time: "8:00 AM - 10:00 AM"},
	}
	resp := ToRequestResponse(&req, conflicts)

	assert.Equal(t, "November 20, 2025", resp.EventDateText)
	assert.Equal(t, "9:00 AM - 4:00 PM", resp.EventTimeText)
	assert.Equal(t, []string{"Waiver", "Resume"}, resp.Requirements)
	assert.True(t, resp.HasConflict)
	assert.Len(t, resp.Conflicts, 1)
	assert.Equal(t, model.RequestPending, resp.Status)
}

func TestToRequestResponseNoConflicts(t *testing.T) {
	req := model.EventRequestModel{
		EventRequestID:           uuid.New(),
		EventRequestDepartmentID: uuid.New(),
		EventRequestName:         "Seminar",
		EventRequestDate:         "2025-11-21",
		EventRequestStartTime:    "13:00",
		EventRequestEndTime:      "15:00",
		EventRequestStatus:       model.RequestApproved,
	}

	resp := ToRequestResponse(&req, nil)

	assert.False(t, resp.HasConflict)
	assert.Empty(t, resp.Conflicts)
	assert.Empty(t, resp.Requirements)
	assert.Equal(t, "1:00 PM - 3:00 PM", resp.EventTimeText)
}
