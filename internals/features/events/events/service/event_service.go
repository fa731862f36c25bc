package service

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cesms_backend/internals/features/events/events/model"
	"cesms_backend/internals/features/events/scheduling"
	reqModel "cesms_backend/internals/features/events/requirements/model"
	regModel "cesms_backend/internals/features/events/registrations/model"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrEventNotActive = errors.New("event is no longer active")
	ErrInvalidSlot    = errors.New("end time must be after start time")
	ErrNotEventOwner  = errors.New("event belongs to another department")
)

// validateSlot parses both times and rejects empty or inverted windows.
func validateSlot(startTime, endTime string) error {
	start, err := scheduling.ParseClock("start_time", startTime)
	if err != nil {
		return err
	}
	end, err := scheduling.ParseClock("end_time", endTime)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return ErrInvalidSlot
	}
	return nil
}

type EventService struct {
	DB       *gorm.DB
	Detector *scheduling.Detector
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db, Detector: scheduling.NewDetector(db)}
}

// EventView is an event row with its derived status and registration count.
// SeatsRemaining and AlreadyRegistered are filled for the student browse
// view only.
type EventView struct {
	Event             model.EventModel
	DisplayStatus     string
	RegisteredCount   int64
	SeatsRemaining    *int64
	AlreadyRegistered bool
}

// resolveView derives the display status, writes Completed back when the
// schedule has passed, and counts approved registrations.
func (s *EventService) resolveView(ev model.EventModel) EventView {
	now := scheduling.Now()
	derived, err := scheduling.DeriveDisplayStatus(ev.EventStatus, ev.EventDate, ev.EventStartTime, ev.EventEndTime, now)
	if err != nil {
		log.Printf("[WARN] event %s has a malformed schedule: %v", ev.EventID, err)
		derived = ev.EventStatus
	} else if _, err := scheduling.ReconcileCompleted(s.DB, ev.EventID.String(), derived); err != nil {
		log.Printf("[WARN] failed to persist Completed for event %s: %v", ev.EventID, err)
	}

	var count int64
	if err := s.DB.Model(&regModel.RegistrationModel{}).
		Where("registration_event_id = ? AND registration_status = ?", ev.EventID, regModel.RegistrationApproved).
		Count(&count).Error; err != nil {
		log.Printf("[WARN] failed to count registrations for event %s: %v", ev.EventID, err)
	}

	return EventView{Event: ev, DisplayStatus: derived, RegisteredCount: count}
}

func (s *EventService) resolveViews(rows []model.EventModel) []EventView {
	views := make([]EventView, 0, len(rows))
	for _, ev := range rows {
		views = append(views, s.resolveView(ev))
	}
	return views
}

// ListAll returns a page of events, newest date first, plus the total count.
func (s *EventService) ListAll(offset, limit int) ([]EventView, int64, error) {
	var total int64
	if err := s.DB.Model(&model.EventModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.EventModel
	if err := s.DB.Order("event_date DESC, event_start_time ASC").
		Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return s.resolveViews(rows), total, nil
}

// ListByDepartment returns the events owned by one department.
func (s *EventService) ListByDepartment(departmentID uuid.UUID) ([]EventView, error) {
	var rows []model.EventModel
	if err := s.DB.Where("event_department_id = ?", departmentID).
		Order("event_date DESC, event_start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.resolveViews(rows), nil
}

// ListUpcoming returns events students can still browse and join: stored
// Active whose derived status is Active or Ongoing.
func (s *EventService) ListUpcoming() ([]EventView, error) {
	var rows []model.EventModel
	if err := s.DB.Where("event_status = ?", scheduling.StatusActive).
		Order("event_date ASC, event_start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	views := s.resolveViews(rows)
	out := views[:0]
	for _, v := range views {
		if v.DisplayStatus == scheduling.StatusActive || v.DisplayStatus == scheduling.StatusOngoing {
			out = append(out, v)
		}
	}
	return out, nil
}

// ListUpcomingForStudent is the browse view: joinable events with seats
// remaining and whether the student already holds a registration.
func (s *EventService) ListUpcomingForStudent(studentID uuid.UUID) ([]EventView, error) {
	views, err := s.ListUpcoming()
	if err != nil {
		return nil, err
	}

	for i := range views {
		ev := &views[i]
		if ev.Event.EventParticipantLimit != nil {
			remaining := int64(*ev.Event.EventParticipantLimit) - ev.RegisteredCount
			if remaining < 0 {
				remaining = 0
			}
			ev.SeatsRemaining = &remaining
		}

		var count int64
		if err := s.DB.Model(&regModel.RegistrationModel{}).
			Where("registration_event_id = ? AND registration_student_id = ?", ev.Event.EventID, studentID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		ev.AlreadyRegistered = count > 0
	}
	return views, nil
}

// Get loads a single event with its derived status.
func (s *EventService) Get(eventID uuid.UUID) (*EventView, error) {
	var ev model.EventModel
	err := s.DB.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	v := s.resolveView(ev)
	return &v, nil
}

// Create inserts an OSAS-initiated event after a conflict check, along with
// any listed requirements.
func (s *EventService) Create(name, description, location, date, startTime, endTime string, participantLimit *int, requirements []string) (*model.EventModel, []scheduling.Conflict, error) {
	if err := validateSlot(startTime, endTime); err != nil {
		return nil, nil, err
	}
	conflict, conflicts, err := s.Detector.Check(location, date, startTime, endTime, scheduling.CheckOptions{})
	if err != nil {
		return nil, nil, err
	}
	if conflict {
		return nil, conflicts, &scheduling.ConflictError{Conflicts: conflicts}
	}

	ev := model.EventModel{
		EventName:             name,
		EventDescription:      description,
		EventLocation:         location,
		EventDate:             date,
		EventStartTime:        startTime,
		EventEndTime:          endTime,
		EventParticipantLimit: participantLimit,
		EventStatus:           scheduling.StatusActive,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ev).Error; err != nil {
			return err
		}
		for _, name := range requirements {
			if err := tx.Create(&reqModel.EventRequirementModel{
				EventRequirementEventID: ev.EventID,
				EventRequirementName:    name,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &ev, nil, nil
}

// requireOwner loads an event and checks department ownership. A nil owner
// skips the check (OSAS acts on any event).
func (s *EventService) requireOwner(eventID uuid.UUID, owner *uuid.UUID) (*model.EventModel, error) {
	var ev model.EventModel
	err := s.DB.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if owner != nil && (ev.EventDepartmentID == nil || *ev.EventDepartmentID != *owner) {
		return nil, ErrNotEventOwner
	}
	return &ev, nil
}

// CancelOwned is Cancel restricted to the department's own events.
func (s *EventService) CancelOwned(eventID, departmentID uuid.UUID) error {
	if _, err := s.requireOwner(eventID, &departmentID); err != nil {
		return err
	}
	return s.Cancel(eventID)
}

// PostponeOwned is Postpone restricted to the department's own events.
func (s *EventService) PostponeOwned(eventID, departmentID uuid.UUID, date, startTime, endTime string) (*model.EventModel, []scheduling.Conflict, error) {
	if _, err := s.requireOwner(eventID, &departmentID); err != nil {
		return nil, nil, err
	}
	return s.Postpone(eventID, date, startTime, endTime)
}

// Cancel marks an event Cancelled. Completed events cannot be cancelled.
func (s *EventService) Cancel(eventID uuid.UUID) error {
	var ev model.EventModel
	err := s.DB.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}

	derived, derr := scheduling.DeriveDisplayStatus(ev.EventStatus, ev.EventDate, ev.EventStartTime, ev.EventEndTime, scheduling.Now())
	if derr == nil && derived == scheduling.StatusCompleted {
		return ErrEventNotActive
	}
	if ev.EventStatus != scheduling.StatusActive {
		return ErrEventNotActive
	}

	return s.DB.Model(&ev).Update("event_status", scheduling.StatusCancelled).Error
}

// Postpone moves an Active event to a new slot, re-checking conflicts while
// excluding the event itself.
func (s *EventService) Postpone(eventID uuid.UUID, date, startTime, endTime string) (*model.EventModel, []scheduling.Conflict, error) {
	var ev model.EventModel
	err := s.DB.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrEventNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if ev.EventStatus != scheduling.StatusActive {
		return nil, nil, ErrEventNotActive
	}
	if err := validateSlot(startTime, endTime); err != nil {
		return nil, nil, err
	}

	conflict, conflicts, err := s.Detector.Check(ev.EventLocation, date, startTime, endTime, scheduling.CheckOptions{
		ExcludeEventID: ev.EventID.String(),
	})
	if err != nil {
		return nil, nil, err
	}
	if conflict {
		return nil, conflicts, &scheduling.ConflictError{Conflicts: conflicts}
	}

	updates := map[string]interface{}{
		"event_date":       date,
		"event_start_time": startTime,
		"event_end_time":   endTime,
	}
	if err := s.DB.Model(&ev).Updates(updates).Error; err != nil {
		return nil, nil, err
	}
	ev.EventDate = date
	ev.EventStartTime = startTime
	ev.EventEndTime = endTime
	return &ev, nil, nil
}
