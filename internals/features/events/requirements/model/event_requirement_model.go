package model

import (
	"time"

	"github.com/google/uuid"
)

// EventRequirementModel is one document or item participants of a
// limited-seat event must submit (waiver, medical certificate, fee).
type EventRequirementModel struct {
	EventRequirementID        uuid.UUID `gorm:"column:event_requirement_id;type:uuid;default:gen_random_uuid();primaryKey" json:"event_requirement_id"`
	EventRequirementEventID   uuid.UUID `gorm:"column:event_requirement_event_id;type:uuid;not null;index" json:"event_requirement_event_id"`
	EventRequirementName      string    `gorm:"column:event_requirement_name;type:varchar(150);not null" json:"event_requirement_name"`
	EventRequirementCreatedAt time.Time `gorm:"column:event_requirement_created_at;autoCreateTime" json:"event_requirement_created_at"`
}

func (EventRequirementModel) TableName() string {
	return "event_requirements"
}
