package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	eventModel "cesms_backend/internals/features/events/events/model"
	"cesms_backend/internals/features/events/registrations/model"
	reqmtModel "cesms_backend/internals/features/events/requirements/model"
	"cesms_backend/internals/features/events/scheduling"
)

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrEventNotJoinable        = errors.New("event is not open for registration")
	ErrEventFull               = errors.New("event has reached its participant limit")
	ErrAlreadyRegistered       = errors.New("you are already registered for this event")
	ErrRegistrationNotFound    = errors.New("registration not found")
	ErrRegistrationNotPending  = errors.New("only pending registrations can be cancelled")
	ErrRegistrationNotApproved = errors.New("registration is not approved")
	ErrRequirementsUnverified  = errors.New("not all requirements have been verified")
	ErrNotEventOwner           = errors.New("event belongs to another department")
)

type RegistrationService struct {
	DB *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{DB: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Register signs a student up for an event. Free-for-all events are approved
// on the spot with a scannable code; limited-seat events queue the student as
// Pending and initialize their requirement checklist.
func (s *RegistrationService) Register(eventID, studentID uuid.UUID) (*model.RegistrationModel, error) {
	var ev eventModel.EventModel
	err := s.DB.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	derived, derr := scheduling.DeriveDisplayStatus(ev.EventStatus, ev.EventDate, ev.EventStartTime, ev.EventEndTime, scheduling.Now())
	if derr != nil {
		return nil, derr
	}
	if derived != scheduling.StatusActive {
		return nil, ErrEventNotJoinable
	}

	reg := model.RegistrationModel{
		RegistrationEventID:   eventID,
		RegistrationStudentID: studentID,
		RegistrationStatus:    model.RegistrationPending,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if !ev.IsFreeForAll() {
			var approved int64
			if err := tx.Model(&model.RegistrationModel{}).
				Where("registration_event_id = ? AND registration_status = ?", eventID, model.RegistrationApproved).
				Count(&approved).Error; err != nil {
				return err
			}
			if approved >= int64(*ev.EventParticipantLimit) {
				return ErrEventFull
			}
		} else {
			code := uuid.NewString()
			now := time.Now()
			reg.RegistrationStatus = model.RegistrationApproved
			reg.RegistrationUniqueCode = &code
			reg.RegistrationApprovedAt = &now
		}

		if err := tx.Create(&reg).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyRegistered
			}
			return err
		}

		if !ev.IsFreeForAll() {
			return initRequirements(tx, eventID, reg.RegistrationID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// initRequirements creates one Pending tracking row per event requirement.
func initRequirements(tx *gorm.DB, eventID, registrationID uuid.UUID) error {
	var requirements []reqmtModel.EventRequirementModel
	if err := tx.Where("event_requirement_event_id = ?", eventID).Find(&requirements).Error; err != nil {
		return err
	}
	for _, r := range requirements {
		if err := tx.Create(&reqmtModel.RegistrationRequirementModel{
			RegistrationRequirementRegistrationID: registrationID,
			RegistrationRequirementRequirementID:  r.EventRequirementID,
			RegistrationRequirementStatus:         reqmtModel.RequirementPending,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// CancelPending lets a student withdraw their own pending registration.
func (s *RegistrationService) CancelPending(registrationID, studentID uuid.UUID) error {
	var reg model.RegistrationModel
	err := s.DB.Where("registration_id = ? AND registration_student_id = ?", registrationID, studentID).
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRegistrationNotFound
	}
	if err != nil {
		return err
	}
	if reg.RegistrationStatus != model.RegistrationPending {
		return ErrRegistrationNotPending
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registration_requirement_registration_id = ?", reg.RegistrationID).
			Delete(&reqmtModel.RegistrationRequirementModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&reg).Error
	})
}

// ListByStudent returns the student's registrations, newest first.
func (s *RegistrationService) ListByStudent(studentID uuid.UUID) ([]model.RegistrationModel, error) {
	var rows []model.RegistrationModel
	err := s.DB.Where("registration_student_id = ?", studentID).
		Order("registration_created_at DESC").Find(&rows).Error
	return rows, err
}

// GetApprovedCode loads the scannable code for a student's own approved
// registration.
func (s *RegistrationService) GetApprovedCode(registrationID, studentID uuid.UUID) (string, error) {
	var reg model.RegistrationModel
	err := s.DB.Where("registration_id = ? AND registration_student_id = ?", registrationID, studentID).
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrRegistrationNotFound
	}
	if err != nil {
		return "", err
	}
	if reg.RegistrationStatus != model.RegistrationApproved || reg.RegistrationUniqueCode == nil {
		return "", ErrRegistrationNotApproved
	}
	return *reg.RegistrationUniqueCode, nil
}

// ownedEvent loads the event and verifies department ownership.
func (s *RegistrationService) ownedEvent(eventID, departmentID uuid.UUID) (*eventModel.EventModel, error) {
	var ev eventModel.EventModel
	err := s.DB.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if ev.EventDepartmentID == nil || *ev.EventDepartmentID != departmentID {
		return nil, ErrNotEventOwner
	}
	return &ev, nil
}

// ListForEvent returns the registrations of a department's own event.
func (s *RegistrationService) ListForEvent(eventID, departmentID uuid.UUID) ([]model.RegistrationModel, error) {
	if _, err := s.ownedEvent(eventID, departmentID); err != nil {
		return nil, err
	}
	var rows []model.RegistrationModel
	err := s.DB.Where("registration_event_id = ?", eventID).
		Order("registration_created_at ASC").Find(&rows).Error
	return rows, err
}

// Approve promotes a pending registration, minting its scannable code. All
// of the registrant's requirements must be verified first, and the seat
// count is re-checked under lock.
func (s *RegistrationService) Approve(registrationID, departmentID uuid.UUID) (*model.RegistrationModel, error) {
	var approved *model.RegistrationModel

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var reg model.RegistrationModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("registration_id = ?", registrationID).First(&reg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		if err != nil {
			return err
		}
		if reg.RegistrationStatus != model.RegistrationPending {
			return ErrRegistrationNotPending
		}

		ev := new(eventModel.EventModel)
		if err := tx.Where("event_id = ?", reg.RegistrationEventID).First(ev).Error; err != nil {
			return err
		}
		if ev.EventDepartmentID == nil || *ev.EventDepartmentID != departmentID {
			return ErrNotEventOwner
		}

		var unverified int64
		if err := tx.Model(&reqmtModel.RegistrationRequirementModel{}).
			Where("registration_requirement_registration_id = ? AND registration_requirement_status <> ?",
				reg.RegistrationID, reqmtModel.RequirementVerified).
			Count(&unverified).Error; err != nil {
			return err
		}
		if unverified > 0 {
			return ErrRequirementsUnverified
		}

		if !ev.IsFreeForAll() {
			var count int64
			if err := tx.Model(&model.RegistrationModel{}).
				Where("registration_event_id = ? AND registration_status = ?", ev.EventID, model.RegistrationApproved).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*ev.EventParticipantLimit) {
				return ErrEventFull
			}
		}

		code := uuid.NewString()
		now := time.Now()
		if err := tx.Model(&reg).Updates(map[string]interface{}{
			"registration_status":      model.RegistrationApproved,
			"registration_unique_code": code,
			"registration_approved_at": now,
		}).Error; err != nil {
			return err
		}

		reg.RegistrationStatus = model.RegistrationApproved
		reg.RegistrationUniqueCode = &code
		reg.RegistrationApprovedAt = &now
		approved = &reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// Reject declines a pending registration on a department's own event.
func (s *RegistrationService) Reject(registrationID, departmentID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var reg model.RegistrationModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("registration_id = ?", registrationID).First(&reg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		if err != nil {
			return err
		}
		if reg.RegistrationStatus != model.RegistrationPending {
			return ErrRegistrationNotPending
		}

		var ev eventModel.EventModel
		if err := tx.Where("event_id = ?", reg.RegistrationEventID).First(&ev).Error; err != nil {
			return err
		}
		if ev.EventDepartmentID == nil || *ev.EventDepartmentID != departmentID {
			return ErrNotEventOwner
		}

		now := time.Now()
		return tx.Model(&reg).Updates(map[string]interface{}{
			"registration_status":      model.RegistrationRejected,
			"registration_rejected_at": now,
		}).Error
	})
}
