package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "cesms_backend/internals/features/events/events/model"
	regModel "cesms_backend/internals/features/events/registrations/model"
	"cesms_backend/internals/features/events/requirements/model"
)

var (
	ErrEventNotFound          = errors.New("event not found")
	ErrNotEventOwner          = errors.New("event belongs to another department")
	ErrRequirementNotFound    = errors.New("requirement not found")
	ErrRegistrationNotFound   = errors.New("registration not found")
	ErrTrackingRowNotFound    = errors.New("requirement is not tracked for this registration")
	ErrRequirementNotPending  = errors.New("requirement has already been submitted")
	ErrRequirementNotReadable = errors.New("requirement cannot be verified before submission")
)

type RequirementService struct {
	DB *gorm.DB
}

func NewRequirementService(db *gorm.DB) *RequirementService {
	return &RequirementService{DB: db}
}

func (s *RequirementService) ownedEvent(eventID, departmentID uuid.UUID) (*eventModel.EventModel, error) {
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

// ListForEvent returns the requirement checklist for an event.
func (s *RequirementService) ListForEvent(eventID uuid.UUID) ([]model.EventRequirementModel, error) {
	var rows []model.EventRequirementModel
	err := s.DB.Where("event_requirement_event_id = ?", eventID).
		Order("event_requirement_created_at ASC").Find(&rows).Error
	return rows, err
}

// Add attaches a requirement to a department's own event and backfills a
// Pending tracking row for every existing registration.
func (s *RequirementService) Add(eventID, departmentID uuid.UUID, name string) (*model.EventRequirementModel, error) {
	if _, err := s.ownedEvent(eventID, departmentID); err != nil {
		return nil, err
	}

	req := model.EventRequirementModel{
		EventRequirementEventID: eventID,
		EventRequirementName:    name,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&req).Error; err != nil {
			return err
		}

		var regs []regModel.RegistrationModel
		if err := tx.Where("registration_event_id = ? AND registration_status IN ?",
			eventID, []string{regModel.RegistrationPending, regModel.RegistrationApproved}).
			Find(&regs).Error; err != nil {
			return err
		}
		for _, reg := range regs {
			if err := tx.Create(&model.RegistrationRequirementModel{
				RegistrationRequirementRegistrationID: reg.RegistrationID,
				RegistrationRequirementRequirementID:  req.EventRequirementID,
				RegistrationRequirementStatus:         model.RequirementPending,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Delete removes a requirement and its tracking rows.
func (s *RequirementService) Delete(requirementID, departmentID uuid.UUID) error {
	var req model.EventRequirementModel
	err := s.DB.Where("event_requirement_id = ?", requirementID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRequirementNotFound
	}
	if err != nil {
		return err
	}
	if _, err := s.ownedEvent(req.EventRequirementEventID, departmentID); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registration_requirement_requirement_id = ?", requirementID).
			Delete(&model.RegistrationRequirementModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&req).Error
	})
}

// TrackedRequirement joins a tracking row with its requirement name.
type TrackedRequirement struct {
	Tracking    model.RegistrationRequirementModel
	Requirement model.EventRequirementModel
}

// ListForRegistration returns the per-registrant checklist.
func (s *RequirementService) ListForRegistration(registrationID uuid.UUID) ([]TrackedRequirement, error) {
	var tracked []model.RegistrationRequirementModel
	if err := s.DB.Where("registration_requirement_registration_id = ?", registrationID).
		Find(&tracked).Error; err != nil {
		return nil, err
	}

	out := make([]TrackedRequirement, 0, len(tracked))
	for _, t := range tracked {
		var req model.EventRequirementModel
		if err := s.DB.Where("event_requirement_id = ?", t.RegistrationRequirementRequirementID).
			First(&req).Error; err != nil {
			return nil, err
		}
		out = append(out, TrackedRequirement{Tracking: t, Requirement: req})
	}
	return out, nil
}

// MarkSubmitted moves a pending tracking row to Submitted. The owning
// department records this when the registrant hands the item in.
func (s *RequirementService) MarkSubmitted(trackingID, departmentID uuid.UUID) error {
	return s.updateTracking(trackingID, departmentID, func(t *model.RegistrationRequirementModel) (map[string]interface{}, error) {
		if t.RegistrationRequirementStatus != model.RequirementPending {
			return nil, ErrRequirementNotPending
		}
		return map[string]interface{}{
			"registration_requirement_status": model.RequirementSubmitted,
		}, nil
	})
}

// Verify moves a submitted tracking row to Verified.
func (s *RequirementService) Verify(trackingID, departmentID uuid.UUID) error {
	return s.updateTracking(trackingID, departmentID, func(t *model.RegistrationRequirementModel) (map[string]interface{}, error) {
		if t.RegistrationRequirementStatus != model.RequirementSubmitted {
			return nil, ErrRequirementNotReadable
		}
		now := time.Now()
		return map[string]interface{}{
			"registration_requirement_status":      model.RequirementVerified,
			"registration_requirement_verified_by": departmentID,
			"registration_requirement_verified_at": now,
		}, nil
	})
}

// MarkSubmittedByStudent lets a registrant mark their own pending item
// Submitted, leaving verification to the owning department.
func (s *RequirementService) MarkSubmittedByStudent(trackingID, studentID uuid.UUID) error {
	var t model.RegistrationRequirementModel
	err := s.DB.Where("registration_requirement_id = ?", trackingID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTrackingRowNotFound
	}
	if err != nil {
		return err
	}

	var reg regModel.RegistrationModel
	err = s.DB.Where("registration_id = ? AND registration_student_id = ?",
		t.RegistrationRequirementRegistrationID, studentID).First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRegistrationNotFound
	}
	if err != nil {
		return err
	}

	if t.RegistrationRequirementStatus != model.RequirementPending {
		return ErrRequirementNotPending
	}
	return s.DB.Model(&t).
		Update("registration_requirement_status", model.RequirementSubmitted).Error
}

func (s *RequirementService) updateTracking(trackingID, departmentID uuid.UUID, mutate func(*model.RegistrationRequirementModel) (map[string]interface{}, error)) error {
	var t model.RegistrationRequirementModel
	err := s.DB.Where("registration_requirement_id = ?", trackingID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTrackingRowNotFound
	}
	if err != nil {
		return err
	}

	var reg regModel.RegistrationModel
	if err := s.DB.Where("registration_id = ?", t.RegistrationRequirementRegistrationID).First(&reg).Error; err != nil {
		return ErrRegistrationNotFound
	}
	if _, err := s.ownedEvent(reg.RegistrationEventID, departmentID); err != nil {
		return err
	}

	updates, err := mutate(&t)
	if err != nil {
		return err
	}
	return s.DB.Model(&t).Updates(updates).Error
}

// ListForOwnRegistration is the student view: the checklist is only shown
// for the caller's own registration.
func (s *RequirementService) ListForOwnRegistration(registrationID, studentID uuid.UUID) ([]TrackedRequirement, error) {
	var reg regModel.RegistrationModel
	err := s.DB.Where("registration_id = ? AND registration_student_id = ?", registrationID, studentID).
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.ListForRegistration(registrationID)
}

// AllVerified reports whether every tracked requirement of a registration is
// Verified. Registrations with no tracked requirements pass.
func (s *RequirementService) AllVerified(registrationID uuid.UUID) (bool, error) {
	var unverified int64
	err := s.DB.Model(&model.RegistrationRequirementModel{}).
		Where("registration_requirement_registration_id = ? AND registration_requirement_status <> ?",
			registrationID, model.RequirementVerified).
		Count(&unverified).Error
	if err != nil {
		return false, err
	}
	return unverified == 0, nil
}
