package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Request lifecycle states. Pending is the only non-terminal state.
const (
	RequestPending   = "Pending"
	RequestApproved  = "Approved"
	RequestRejected  = "Rejected"
	RequestCancelled = "Cancelled"
)

// EventRequestModel is a department's proposal for an event, awaiting an
// OSAS decision. Requirements are kept as a JSON array of strings and copied
// onto the materialized event when the request is approved.
type EventRequestModel struct {
	EventRequestID               uuid.UUID      `gorm:"column:event_request_id;type:uuid;default:gen_random_uuid();primaryKey" json:"event_request_id"`
	EventRequestDepartmentID     uuid.UUID      `gorm:"column:event_request_department_id;type:uuid;not null;index" json:"event_request_department_id"`
	EventRequestName             string         `gorm:"column:event_request_name;type:varchar(150);not null" json:"event_request_name"`
	EventRequestDescription      string         `gorm:"column:event_request_description;type:text" json:"event_request_description"`
	EventRequestLocation         string         `gorm:"column:event_request_location;type:varchar(150);not null;index" json:"event_request_location"`
	EventRequestDate             string         `gorm:"column:event_request_date;type:varchar(10);not null;index" json:"event_request_date"`
	EventRequestStartTime        string         `gorm:"column:event_request_start_time;type:varchar(8);not null" json:"event_request_start_time"`
	EventRequestEndTime          string         `gorm:"column:event_request_end_time;type:varchar(8);not null" json:"event_request_end_time"`
	EventRequestParticipantLimit *int           `gorm:"column:event_request_participant_limit" json:"event_request_participant_limit,omitempty"`
	EventRequestRequirements     datatypes.JSON `gorm:"column:event_request_requirements;type:jsonb" json:"event_request_requirements,omitempty"`
	EventRequestStatus           string         `gorm:"column:event_request_status;type:varchar(20);not null;default:'Pending';index" json:"event_request_status"`
	EventRequestRemarks          *string        `gorm:"column:event_request_remarks;type:text" json:"event_request_remarks,omitempty"`
	EventRequestDecidedBy        *uuid.UUID     `gorm:"column:event_request_decided_by;type:uuid" json:"event_request_decided_by,omitempty"`
	EventRequestDecidedAt        *time.Time     `gorm:"column:event_request_decided_at" json:"event_request_decided_at,omitempty"`
	EventRequestCreatedAt        time.Time      `gorm:"column:event_request_created_at;autoCreateTime" json:"event_request_created_at"`
	EventRequestUpdatedAt        time.Time      `gorm:"column:event_request_updated_at;autoUpdateTime" json:"event_request_updated_at"`
}

func (EventRequestModel) TableName() string {
	return "event_requests"
}

// IsPending reports whether the request can still be edited or decided.
func (m *EventRequestModel) IsPending() bool {
	return m.EventRequestStatus == RequestPending
}
