package dto

import (
	"cesms_backend/internals/features/events/registrations/model"
	helper "cesms_backend/internals/helpers"
)

// RegisterRequest signs the calling student up for an event.
type RegisterRequest struct {
	EventID string `json:"event_id" validate:"required,uuid4"`
}

// RegistrationResponse is the standard registration projection. Event and
// student fields are filled by the controller where the view needs them.
type RegistrationResponse struct {
	RegistrationID string  `json:"registration_id"`
	EventID        string  `json:"event_id"`
	EventName      string  `json:"event_name,omitempty"`
	EventDate      string  `json:"event_date,omitempty"`
	EventDateText  string  `json:"event_date_text,omitempty"`
	EventTimeText  string  `json:"event_time_text,omitempty"`
	StudentID      string  `json:"student_id"`
	StudentName    string  `json:"student_name,omitempty"`
	StudentNumber  string  `json:"student_number,omitempty"`
	Status         string  `json:"status"`
	HasCode        bool    `json:"has_code"`
	ApprovedAt     *string `json:"approved_at,omitempty"`
	RejectedAt     *string `json:"rejected_at,omitempty"`
	Attended       bool    `json:"attended"`
	AttendedAt     *string `json:"attended_at,omitempty"`
}

// ToRegistrationResponse maps the registration row itself; callers layer
// event/student details on top.
func ToRegistrationResponse(reg *model.RegistrationModel) RegistrationResponse {
	resp := RegistrationResponse{
		RegistrationID: reg.RegistrationID.String(),
		EventID:        reg.RegistrationEventID.String(),
		StudentID:      reg.RegistrationStudentID.String(),
		Status:         reg.RegistrationStatus,
		HasCode:        reg.RegistrationUniqueCode != nil,
		Attended:       reg.RegistrationAttended,
	}
	if reg.RegistrationApprovedAt != nil {
		t := helper.FormatDateTimeManila(*reg.RegistrationApprovedAt)
		resp.ApprovedAt = &t
	}
	if reg.RegistrationRejectedAt != nil {
		t := helper.FormatDateTimeManila(*reg.RegistrationRejectedAt)
		resp.RejectedAt = &t
	}
	if reg.RegistrationAttendedAt != nil {
		t := helper.FormatDateTimeManila(*reg.RegistrationAttendedAt)
		resp.AttendedAt = &t
	}
	return resp
}
