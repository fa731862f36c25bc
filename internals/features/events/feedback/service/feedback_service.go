package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	eventModel "cesms_backend/internals/features/events/events/model"
	"cesms_backend/internals/features/events/feedback/model"
	regModel "cesms_backend/internals/features/events/registrations/model"
	"cesms_backend/internals/features/events/scheduling"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventNotFinished = errors.New("feedback opens after the event has finished")
	ErrDidNotAttend     = errors.New("only attendees can leave feedback")
)

type FeedbackService struct {
	DB *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{DB: db}
}

// Submit records one attendee's rating for a finished event. Resubmitting
// replaces the previous rating and comment. The bool reports whether a new
// row was created.
func (s *FeedbackService) Submit(eventID, studentID uuid.UUID, rating int, comment string) (*model.EventFeedbackModel, bool, error) {
	var ev eventModel.EventModel
	err := s.DB.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, ErrEventNotFound
	}
	if err != nil {
		return nil, false, err
	}

	derived, err := scheduling.DeriveDisplayStatus(ev.EventStatus, ev.EventDate, ev.EventStartTime, ev.EventEndTime, scheduling.Now())
	if err != nil {
		return nil, false, err
	}
	if derived != scheduling.StatusCompleted {
		return nil, false, ErrEventNotFinished
	}

	// Free-for-all events issue no scannable codes, so a registration alone
	// qualifies; limited-seat events require a scanned check-in.
	regQuery := s.DB.Where("registration_event_id = ? AND registration_student_id = ?", eventID, studentID)
	if !ev.IsFreeForAll() {
		regQuery = regQuery.Where("registration_attended = ?", true)
	}
	var reg regModel.RegistrationModel
	err = regQuery.First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, ErrDidNotAttend
	}
	if err != nil {
		return nil, false, err
	}

	var existing model.EventFeedbackModel
	err = s.DB.Where("event_feedback_event_id = ? AND event_feedback_student_id = ?", eventID, studentID).
		First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{
			"event_feedback_rating":  rating,
			"event_feedback_comment": comment,
		}
		if err := s.DB.Model(&existing).Updates(updates).Error; err != nil {
			return nil, false, err
		}
		existing.EventFeedbackRating = rating
		existing.EventFeedbackComment = comment
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	fb := model.EventFeedbackModel{
		EventFeedbackEventID:   eventID,
		EventFeedbackStudentID: studentID,
		EventFeedbackRating:    rating,
		EventFeedbackComment:   comment,
	}
	if err := s.DB.Create(&fb).Error; err != nil {
		// Concurrent first submit hits the unique index; retry as an update.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return s.Submit(eventID, studentID, rating, comment)
		}
		return nil, false, err
	}
	return &fb, true, nil
}

// StudentFeedback is a feedback row joined with its event's name and date.
type StudentFeedback struct {
	Feedback  model.EventFeedbackModel
	EventName string
	EventDate string
}

// ListByStudent returns the calling student's feedback history, newest first.
func (s *FeedbackService) ListByStudent(studentID uuid.UUID) ([]StudentFeedback, error) {
	var rows []model.EventFeedbackModel
	if err := s.DB.Where("event_feedback_student_id = ?", studentID).
		Order("event_feedback_created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]StudentFeedback, 0, len(rows))
	for _, fb := range rows {
		entry := StudentFeedback{Feedback: fb}
		var ev eventModel.EventModel
		if err := s.DB.Select("event_name", "event_date").
			Where("event_id = ?", fb.EventFeedbackEventID).First(&ev).Error; err == nil {
			entry.EventName = ev.EventName
			entry.EventDate = ev.EventDate
		}
		out = append(out, entry)
	}
	return out, nil
}

// Summary aggregates ratings for one event.
type Summary struct {
	Count        int64
	Average      float64
	Distribution map[int]int64
	Rows         []model.EventFeedbackModel
}

// Summarize builds the feedback summary for an event.
func (s *FeedbackService) Summarize(eventID uuid.UUID) (*Summary, error) {
	var count int64
	if err := s.DB.Model(&eventModel.EventModel{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrEventNotFound
	}

	var rows []model.EventFeedbackModel
	if err := s.DB.Where("event_feedback_event_id = ?", eventID).
		Order("event_feedback_created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	summary := Summary{
		Count:        int64(len(rows)),
		Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		Rows:         rows,
	}
	total := 0
	for _, fb := range rows {
		total += fb.EventFeedbackRating
		summary.Distribution[fb.EventFeedbackRating]++
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return &summary, nil
}
