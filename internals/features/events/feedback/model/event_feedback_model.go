package model

import (
	"time"

	"github.com/google/uuid"
)

// EventFeedbackModel is one attendee's rating and comment for a finished
// event; one row per student per event.
type EventFeedbackModel struct {
	EventFeedbackID        uuid.UUID `gorm:"column:event_feedback_id;type:uuid;default:gen_random_uuid();primaryKey" json:"event_feedback_id"`
	EventFeedbackEventID   uuid.UUID `gorm:"column:event_feedback_event_id;type:uuid;not null;uniqueIndex:uq_feedback_student_event" json:"event_feedback_event_id"`
	EventFeedbackStudentID uuid.UUID `gorm:"column:event_feedback_student_id;type:uuid;not null;uniqueIndex:uq_feedback_student_event" json:"event_feedback_student_id"`
	EventFeedbackRating    int       `gorm:"column:event_feedback_rating;not null" json:"event_feedback_rating"`
	EventFeedbackComment   string    `gorm:"column:event_feedback_comment;type:text" json:"event_feedback_comment"`
	EventFeedbackCreatedAt time.Time `gorm:"column:event_feedback_created_at;autoCreateTime" json:"event_feedback_created_at"`
}

func (EventFeedbackModel) TableName() string {
	return "event_feedback"
}
