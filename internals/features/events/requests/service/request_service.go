package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	eventModel "cesms_backend/internals/features/events/events/model"
	"cesms_backend/internals/features/events/requests/model"
	reqmtModel "cesms_backend/internals/features/events/requirements/model"
	"cesms_backend/internals/features/events/scheduling"
)

var (
	ErrRequestNotFound = errors.New("event request not found")
	ErrNotOwner        = errors.New("request belongs to another department")
	ErrNotPending      = errors.New("only pending requests can be modified")
	ErrInvalidSlot     = errors.New("end time must be after start time")
)

type RequestService struct {
	DB       *gorm.DB
	Detector *scheduling.Detector
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{DB: db, Detector: scheduling.NewDetector(db)}
}

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

// RequestInput carries the schedulable fields of a request.
type RequestInput struct {
	Name             string
	Description      string
	Location         string
	Date             string
	StartTime        string
	EndTime          string
	ParticipantLimit *int
	Requirements     []string
}

// Submit files a new request for the department. The slot must be free of
// conflicts with approved events and other pending requests.
func (s *RequestService) Submit(departmentID uuid.UUID, in RequestInput) (*model.EventRequestModel, []scheduling.Conflict, error) {
	if err := validateSlot(in.StartTime, in.EndTime); err != nil {
		return nil, nil, err
	}

	conflict, conflicts, err := s.Detector.Check(in.Location, in.Date, in.StartTime, in.EndTime, scheduling.CheckOptions{})
	if err != nil {
		return nil, nil, err
	}
	if conflict {
		return nil, conflicts, &scheduling.ConflictError{Conflicts: conflicts}
	}

	req := model.EventRequestModel{
		EventRequestDepartmentID:     departmentID,
		EventRequestName:             in.Name,
		EventRequestDescription:      in.Description,
		EventRequestLocation:         in.Location,
		EventRequestDate:             in.Date,
		EventRequestStartTime:        in.StartTime,
		EventRequestEndTime:          in.EndTime,
		EventRequestParticipantLimit: in.ParticipantLimit,
		EventRequestStatus:           model.RequestPending,
	}
	if len(in.Requirements) > 0 {
		raw, err := json.Marshal(in.Requirements)
		if err != nil {
			return nil, nil, err
		}
		req.EventRequestRequirements = raw
	}

	if err := s.DB.Create(&req).Error; err != nil {
		return nil, nil, err
	}
	return &req, nil, nil
}

// Edit replaces the schedulable fields of a department's own pending
// request, excluding the request itself from the conflict re-check.
func (s *RequestService) Edit(requestID, departmentID uuid.UUID, in RequestInput) (*model.EventRequestModel, []scheduling.Conflict, error) {
	var req model.EventRequestModel
	err := s.DB.Where("event_request_id = ?", requestID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if req.EventRequestDepartmentID != departmentID {
		return nil, nil, ErrNotOwner
	}
	if !req.IsPending() {
		return nil, nil, ErrNotPending
	}
	if err := validateSlot(in.StartTime, in.EndTime); err != nil {
		return nil, nil, err
	}

	conflict, conflicts, err := s.Detector.Check(in.Location, in.Date, in.StartTime, in.EndTime, scheduling.CheckOptions{
		ExcludeRequestID: req.EventRequestID.String(),
	})
	if err != nil {
		return nil, nil, err
	}
	if conflict {
		return nil, conflicts, &scheduling.ConflictError{Conflicts: conflicts}
	}

	updates := map[string]interface{}{
		"event_request_name":              in.Name,
		"event_request_description":       in.Description,
		"event_request_location":          in.Location,
		"event_request_date":              in.Date,
		"event_request_start_time":        in.StartTime,
		"event_request_end_time":          in.EndTime,
		"event_request_participant_limit": in.ParticipantLimit,
	}
	if in.Requirements != nil {
		raw, err := json.Marshal(in.Requirements)
		if err != nil {
			return nil, nil, err
		}
		updates["event_request_requirements"] = raw
	}

	if err := s.DB.Model(&req).Updates(updates).Error; err != nil {
		return nil, nil, err
	}
	if err := s.DB.Where("event_request_id = ?", requestID).First(&req).Error; err != nil {
		return nil, nil, err
	}
	return &req, nil, nil
}

// Cancel lets the owning department withdraw a pending request.
func (s *RequestService) Cancel(requestID, departmentID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var req model.EventRequestModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_request_id = ?", requestID).First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return err
		}
		if req.EventRequestDepartmentID != departmentID {
			return ErrNotOwner
		}
		if !CanTransition(req.EventRequestStatus, model.RequestCancelled) {
			return &AlreadyProcessedError{CurrentStatus: req.EventRequestStatus}
		}
		return tx.Model(&req).Update("event_request_status", model.RequestCancelled).Error
	})
}

// Delete removes a department's own pending request entirely.
func (s *RequestService) Delete(requestID, departmentID uuid.UUID) error {
	var req model.EventRequestModel
	err := s.DB.Where("event_request_id = ?", requestID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}
	if req.EventRequestDepartmentID != departmentID {
		return ErrNotOwner
	}
	if !req.IsPending() {
		return ErrNotPending
	}
	return s.DB.Delete(&req).Error
}

// ListByDepartment returns the department's own requests, newest first,
// optionally filtered by status.
func (s *RequestService) ListByDepartment(departmentID uuid.UUID, status string) ([]model.EventRequestModel, error) {
	q := s.DB.Where("event_request_department_id = ?", departmentID).
		Order("event_request_created_at DESC")
	if status != "" {
		q = q.Where("event_request_status = ?", status)
	}
	var rows []model.EventRequestModel
	err := q.Find(&rows).Error
	return rows, err
}

// CountByStatus tallies a department's requests per status. A nil department
// counts the whole queue.
func (s *RequestService) CountByStatus(departmentID *uuid.UUID) (map[string]int64, error) {
	q := s.DB.Model(&model.EventRequestModel{}).
		Select("event_request_status, COUNT(*) AS total").
		Group("event_request_status")
	if departmentID != nil {
		q = q.Where("event_request_department_id = ?", *departmentID)
	}

	var rows []struct {
		EventRequestStatus string
		Total              int64
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[string]int64{
		model.RequestPending:   0,
		model.RequestApproved:  0,
		model.RequestRejected:  0,
		model.RequestCancelled: 0,
	}
	for _, r := range rows {
		counts[r.EventRequestStatus] = r.Total
	}
	return counts, nil
}

// AnnotatedRequest is a request plus the conflicts OSAS should see before
// deciding it.
type AnnotatedRequest struct {
	Request   model.EventRequestModel
	Conflicts []scheduling.Conflict
}

// ListForReview returns requests for the OSAS queue. Pending requests are
// annotated with current conflicts, each check excluding the request itself.
func (s *RequestService) ListForReview(status string) ([]AnnotatedRequest, error) {
	q := s.DB.Order("event_request_created_at ASC")
	if status != "" {
		q = q.Where("event_request_status = ?", status)
	}
	var rows []model.EventRequestModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]AnnotatedRequest, 0, len(rows))
	for _, req := range rows {
		ann := AnnotatedRequest{Request: req}
		if req.IsPending() {
			_, conflicts, err := s.Detector.Check(
				req.EventRequestLocation, req.EventRequestDate,
				req.EventRequestStartTime, req.EventRequestEndTime,
				scheduling.CheckOptions{ExcludeRequestID: req.EventRequestID.String()},
			)
			if err != nil {
				var malformed *scheduling.MalformedScheduleError
				if !errors.As(err, &malformed) {
					return nil, err
				}
				// A malformed stored slot still shows up in the queue;
				// approval will refuse it.
				ann.Conflicts = []scheduling.Conflict{{Type: "error", Name: "Unreadable schedule", Time: err.Error()}}
			} else {
				ann.Conflicts = conflicts
			}
		}
		out = append(out, ann)
	}
	return out, nil
}

// Approve decides a pending request and materializes the event. The whole
// decision runs in one transaction: the request row is locked, the slot is
// re-checked against commitments that may have appeared since the queue was
// rendered, and only then does the event exist.
func (s *RequestService) Approve(requestID, osasID uuid.UUID, remarks string) (*eventModel.EventModel, []scheduling.Conflict, error) {
	var created *eventModel.EventModel
	var foundConflicts []scheduling.Conflict

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var req model.EventRequestModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_request_id = ?", requestID).First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return err
		}
		if !CanTransition(req.EventRequestStatus, model.RequestApproved) {
			return &AlreadyProcessedError{CurrentStatus: req.EventRequestStatus}
		}

		txDetector := &scheduling.Detector{DB: tx, FailOpen: s.Detector.FailOpen}
		conflict, conflicts, err := txDetector.Check(
			req.EventRequestLocation, req.EventRequestDate,
			req.EventRequestStartTime, req.EventRequestEndTime,
			scheduling.CheckOptions{ExcludeRequestID: req.EventRequestID.String()},
		)
		if err != nil {
			return err
		}
		if conflict {
			foundConflicts = conflicts
			return &scheduling.ConflictError{Conflicts: conflicts}
		}

		ev := eventModel.EventModel{
			EventRequestID:        &req.EventRequestID,
			EventDepartmentID:     &req.EventRequestDepartmentID,
			EventName:             req.EventRequestName,
			EventDescription:      req.EventRequestDescription,
			EventLocation:         req.EventRequestLocation,
			EventDate:             req.EventRequestDate,
			EventStartTime:        req.EventRequestStartTime,
			EventEndTime:          req.EventRequestEndTime,
			EventParticipantLimit: req.EventRequestParticipantLimit,
			EventStatus:           scheduling.StatusActive,
		}
		if err := tx.Create(&ev).Error; err != nil {
			return err
		}

		// Copy the requested requirements onto the new event.
		if len(req.EventRequestRequirements) > 0 {
			var names []string
			if err := json.Unmarshal(req.EventRequestRequirements, &names); err != nil {
				return err
			}
			for _, name := range names {
				if err := tx.Create(&reqmtModel.EventRequirementModel{
					EventRequirementEventID: ev.EventID,
					EventRequirementName:    name,
				}).Error; err != nil {
					return err
				}
			}
		}

		now := time.Now()
		if err := tx.Model(&req).Updates(map[string]interface{}{
			"event_request_status":     model.RequestApproved,
			"event_request_remarks":    remarks,
			"event_request_decided_by": osasID,
			"event_request_decided_at": now,
		}).Error; err != nil {
			return err
		}

		created = &ev
		return nil
	})
	if err != nil {
		return nil, foundConflicts, err
	}
	return created, nil, nil
}

// Reject decides a pending request without materializing anything.
func (s *RequestService) Reject(requestID, osasID uuid.UUID, remarks string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var req model.EventRequestModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_request_id = ?", requestID).First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return err
		}
		if !CanTransition(req.EventRequestStatus, model.RequestRejected) {
			return &AlreadyProcessedError{CurrentStatus: req.EventRequestStatus}
		}

		now := time.Now()
		return tx.Model(&req).Updates(map[string]interface{}{
			"event_request_status":     model.RequestRejected,
			"event_request_remarks":    remarks,
			"event_request_decided_by": osasID,
			"event_request_decided_at": now,
		}).Error
	})
}
