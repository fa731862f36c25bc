package model

import (
	"time"

	"github.com/google/uuid"
)

// Registration lifecycle states.
const (
	RegistrationPending  = "Pending"
	RegistrationApproved = "Approved"
	RegistrationRejected = "Rejected"
)

// RegistrationModel ties a student to an event. The unique index on
// (student, event) closes the double-registration race at the database;
// RegistrationUniqueCode is minted on approval and later scanned at the door.
type RegistrationModel struct {
	RegistrationID         uuid.UUID  `gorm:"column:registration_id;type:uuid;default:gen_random_uuid();primaryKey" json:"registration_id"`
	RegistrationEventID    uuid.UUID  `gorm:"column:registration_event_id;type:uuid;not null;uniqueIndex:uq_registration_student_event" json:"registration_event_id"`
	RegistrationStudentID  uuid.UUID  `gorm:"column:registration_student_id;type:uuid;not null;uniqueIndex:uq_registration_student_event" json:"registration_student_id"`
	RegistrationStatus     string     `gorm:"column:registration_status;type:varchar(20);not null;default:'Pending';index" json:"registration_status"`
	RegistrationUniqueCode *string    `gorm:"column:registration_unique_code;type:varchar(36);uniqueIndex" json:"registration_unique_code,omitempty"`
	RegistrationApprovedAt *time.Time `gorm:"column:registration_approved_at" json:"registration_approved_at,omitempty"`
	RegistrationRejectedAt *time.Time `gorm:"column:registration_rejected_at" json:"registration_rejected_at,omitempty"`
	RegistrationAttended   bool       `gorm:"column:registration_attended;not null;default:false" json:"registration_attended"`
	RegistrationAttendedAt *time.Time `gorm:"column:registration_attended_at" json:"registration_attended_at,omitempty"`
	RegistrationCreatedAt  time.Time  `gorm:"column:registration_created_at;autoCreateTime" json:"registration_created_at"`
	RegistrationUpdatedAt  time.Time  `gorm:"column:registration_updated_at;autoUpdateTime" json:"registration_updated_at"`
}

func (RegistrationModel) TableName() string {
	return "registrations"
}
