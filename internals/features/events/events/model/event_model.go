package model

import (
	"time"

	"github.com/google/uuid"
)

// EventModel is a scheduled commitment on the campus calendar. Rows are
// created either directly by OSAS or by approving a department request, in
// which case EventRequestID points back at the originating request.
//
// Dates and times are stored as strings ("2006-01-02" and "15:04:05") and
// parsed on read; EventStatus holds the stored lifecycle state while the
// displayed state is derived from the schedule.
type EventModel struct {
	EventID               uuid.UUID  `gorm:"column:event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"event_id"`
	EventRequestID        *uuid.UUID `gorm:"column:event_request_id;type:uuid;index" json:"event_request_id,omitempty"`
	EventDepartmentID     *uuid.UUID `gorm:"column:event_department_id;type:uuid;index" json:"event_department_id,omitempty"`
	EventName             string     `gorm:"column:event_name;type:varchar(150);not null" json:"event_name"`
	EventDescription      string     `gorm:"column:event_description;type:text" json:"event_description"`
	EventLocation         string     `gorm:"column:event_location;type:varchar(150);not null;index" json:"event_location"`
	EventDate             string     `gorm:"column:event_date;type:varchar(10);not null;index" json:"event_date"`
	EventStartTime        string     `gorm:"column:event_start_time;type:varchar(8);not null" json:"event_start_time"`
	EventEndTime          string     `gorm:"column:event_end_time;type:varchar(8);not null" json:"event_end_time"`
	EventParticipantLimit *int       `gorm:"column:event_participant_limit" json:"event_participant_limit,omitempty"`
	EventStatus           string     `gorm:"column:event_status;type:varchar(20);not null;default:'Active'" json:"event_status"`
	EventCreatedAt        time.Time  `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt        time.Time  `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
}

func (EventModel) TableName() string {
	return "events"
}

// IsFreeForAll reports whether the event has no participant cap; such events
// auto-approve registrations.
func (m *EventModel) IsFreeForAll() bool {
	return m.EventParticipantLimit == nil
}
