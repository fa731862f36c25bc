package model

import (
	"time"

	"github.com/google/uuid"
)

// Per-registration requirement states.
const (
	RequirementPending   = "Pending"
	RequirementSubmitted = "Submitted"
	RequirementVerified  = "Verified"
)

// RegistrationRequirementModel tracks one event requirement for one
// registration. Rows are initialized in bulk when a registration is created
// for an event that has requirements.
type RegistrationRequirementModel struct {
	RegistrationRequirementID             uuid.UUID  `gorm:"column:registration_requirement_id;type:uuid;default:gen_random_uuid();primaryKey" json:"registration_requirement_id"`
	RegistrationRequirementRegistrationID uuid.UUID  `gorm:"column:registration_requirement_registration_id;type:uuid;not null;uniqueIndex:uq_registration_requirement" json:"registration_requirement_registration_id"`
	RegistrationRequirementRequirementID  uuid.UUID  `gorm:"column:registration_requirement_requirement_id;type:uuid;not null;uniqueIndex:uq_registration_requirement" json:"registration_requirement_requirement_id"`
	RegistrationRequirementStatus         string     `gorm:"column:registration_requirement_status;type:varchar(20);not null;default:'Pending'" json:"registration_requirement_status"`
	RegistrationRequirementVerifiedBy     *uuid.UUID `gorm:"column:registration_requirement_verified_by;type:uuid" json:"registration_requirement_verified_by,omitempty"`
	RegistrationRequirementVerifiedAt     *time.Time `gorm:"column:registration_requirement_verified_at" json:"registration_requirement_verified_at,omitempty"`
	RegistrationRequirementCreatedAt      time.Time  `gorm:"column:registration_requirement_created_at;autoCreateTime" json:"registration_requirement_created_at"`
	RegistrationRequirementUpdatedAt      time.Time  `gorm:"column:registration_requirement_updated_at;autoUpdateTime" json:"registration_requirement_updated_at"`
}

func (RegistrationRequirementModel) TableName() string {
	return "registration_requirements"
}
