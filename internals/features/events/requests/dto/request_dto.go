package dto

import (
	"encoding/json"

	"cesms_backend/internals/features/events/requests/model"
	"cesms_backend/internals/features/events/scheduling"
	helper "cesms_backend/internals/helpers"
)

// SubmitRequestRequest files or edits an event request.
type SubmitRequestRequest struct {
	EventName        string   `json:"event_name" validate:"required,min=3,max=150"`
	EventDescription string   `json:"event_description" validate:"max=5000"`
	EventLocation    string   `json:"event_location" validate:"required,max=150"`
	EventDate        string   `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventStartTime   string   `json:"event_start_time" validate:"required"`
	EventEndTime     string   `json:"event_end_time" validate:"required"`
	ParticipantLimit *int     `json:"participant_limit" validate:"omitempty,min=1"`
	Requirements     []string `json:"requirements" validate:"omitempty,dive,min=1,max=150"`
}

// DecisionRequest carries the optional remarks on approve/reject.
type DecisionRequest struct {
	Remarks string `json:"remarks" validate:"max=2000"`
}

// RequestResponse is the standard request projection.
type RequestResponse struct {
	EventRequestID   string                 `json:"event_request_id"`
	DepartmentID     string                 `json:"department_id"`
	EventName        string                 `json:"event_name"`
	EventDescription string                 `json:"event_description"`
	EventLocation    string                 `json:"event_location"`
	EventDate        string                 `json:"event_date"`
	EventDateText    string                 `json:"event_date_text"`
	EventStartTime   string                 `json:"event_start_time"`
	EventEndTime     string                 `json:"event_end_time"`
	EventTimeText    string                 `json:"event_time_text"`
	ParticipantLimit *int                   `json:"participant_limit,omitempty"`
	Requirements     []string               `json:"requirements,omitempty"`
	Status           string                 `json:"status"`
	Remarks          *string                `json:"remarks,omitempty"`
	HasConflict      bool                   `json:"has_conflict"`
	Conflicts        []scheduling.Conflict  `json:"conflicts,omitempty"`
}

// ToRequestResponse maps a request row (and any detected conflicts) into the
// API shape.
func ToRequestResponse(req *model.EventRequestModel, conflicts []scheduling.Conflict) RequestResponse {
	var requirements []string
	if len(req.EventRequestRequirements) > 0 {
		_ = json.Unmarshal(req.EventRequestRequirements, &requirements)
	}

	return RequestResponse{
		EventRequestID:   req.EventRequestID.String(),
		DepartmentID:     req.EventRequestDepartmentID.String(),
		EventName:        req.EventRequestName,
		EventDescription: req.EventRequestDescription,
		EventLocation:    req.EventRequestLocation,
		EventDate:        req.EventRequestDate,
		EventDateText:    helper.FormatDateReadable(req.EventRequestDate),
		EventStartTime:   req.EventRequestStartTime,
		EventEndTime:     req.EventRequestEndTime,
		EventTimeText:    helper.Format12Hour(req.EventRequestStartTime) + " - " + helper.Format12Hour(req.EventRequestEndTime),
		ParticipantLimit: req.EventRequestParticipantLimit,
		Requirements:     requirements,
		Status:           req.EventRequestStatus,
		Remarks:          req.EventRequestRemarks,
		HasConflict:      len(conflicts) > 0,
		Conflicts:        conflicts,
	}
}
