package dto

import (
	"cesms_backend/internals/features/events/events/model"
	helper "cesms_backend/internals/helpers"
)

// CreateEventRequest creates an event directly (OSAS-initiated, no request
// flow). A nil participant limit means open to everyone.
type CreateEventRequest struct {
	EventName        string   `json:"event_name" validate:"required,min=3,max=150"`
	EventDescription string   `json:"event_description" validate:"max=5000"`
	EventLocation    string   `json:"event_location" validate:"required,max=150"`
	EventDate        string   `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventStartTime   string   `json:"event_start_time" validate:"required"`
	EventEndTime     string   `json:"event_end_time" validate:"required"`
	ParticipantLimit *int     `json:"participant_limit" validate:"omitempty,min=1"`
	Requirements     []string `json:"requirements" validate:"omitempty,dive,min=1,max=150"`
}

// PostponeEventRequest moves an event to a new slot.
type PostponeEventRequest struct {
	EventDate      string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventStartTime string `json:"event_start_time" validate:"required"`
	EventEndTime   string `json:"event_end_time" validate:"required"`
}

// EventResponse is the standard event projection, with the lifecycle status
// derived from the schedule and human-readable date/time strings.
type EventResponse struct {
	EventID          string `json:"event_id"`
	EventRequestID   string `json:"event_request_id,omitempty"`
	DepartmentID     string `json:"department_id,omitempty"`
	EventName        string `json:"event_name"`
	EventDescription string `json:"event_description"`
	EventLocation    string `json:"event_location"`
	EventDate        string `json:"event_date"`
	EventDateText    string `json:"event_date_text"`
	EventStartTime   string `json:"event_start_time"`
	EventEndTime     string `json:"event_end_time"`
	EventTimeText    string `json:"event_time_text"`
	ParticipantLimit *int   `json:"participant_limit,omitempty"`
	Status           string `json:"status"`
	RegisteredCount  int64  `json:"registered_count"`

	// Student browse view only.
	SeatsRemaining    *int64 `json:"seats_remaining,omitempty"`
	IsFull            bool   `json:"is_full,omitempty"`
	AlreadyRegistered bool   `json:"already_registered,omitempty"`
}

// ToEventResponse maps a row plus its derived status into the API shape.
func ToEventResponse(ev *model.EventModel, displayStatus string, registeredCount int64) EventResponse {
	resp := EventResponse{
		EventID:          ev.EventID.String(),
		EventName:        ev.EventName,
		EventDescription: ev.EventDescription,
		EventLocation:    ev.EventLocation,
		EventDate:        ev.EventDate,
		EventDateText:    helper.FormatDateReadable(ev.EventDate),
		EventStartTime:   ev.EventStartTime,
		EventEndTime:     ev.EventEndTime,
		EventTimeText:    helper.Format12Hour(ev.EventStartTime) + " - " + helper.Format12Hour(ev.EventEndTime),
		ParticipantLimit: ev.EventParticipantLimit,
		Status:           displayStatus,
		RegisteredCount:  registeredCount,
	}
	if ev.EventRequestID != nil {
		resp.EventRequestID = ev.EventRequestID.String()
	}
	if ev.EventDepartmentID != nil {
		resp.DepartmentID = ev.EventDepartmentID.String()
	}
	return resp
}
