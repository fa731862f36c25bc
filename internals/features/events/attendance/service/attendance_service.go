package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	eventModel "cesms_backend/internals/features/events/events/model"
	regModel "cesms_backend/internals/features/events/registrations/model"
	"cesms_backend/internals/features/events/scheduling"
	userModel "cesms_backend/internals/features/users/user/model"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrEventNotOngoing = errors.New("attendance can only be recorded while the event is ongoing")
	ErrCodeNotFound    = errors.New("no approved registration matches this code")
	ErrNotEventOwner   = errors.New("event belongs to another department")
)

type AttendanceService struct {
	DB *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db}
}

// ScannableEvents returns events whose derived status is Ongoing right now.
// A nil departmentID returns all of them (OSAS); otherwise only the
// department's own.
func (s *AttendanceService) ScannableEvents(departmentID *uuid.UUID) ([]eventModel.EventModel, error) {
	q := s.DB.Where("event_status = ?", scheduling.StatusActive)
	if departmentID != nil {
		q = q.Where("event_department_id = ?", *departmentID)
	}
	var rows []eventModel.EventModel
	if err := q.Order("event_start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	now := scheduling.Now()
	out := rows[:0]
	for _, ev := range rows {
		derived, err := scheduling.DeriveDisplayStatus(ev.EventStatus, ev.EventDate, ev.EventStartTime, ev.EventEndTime, now)
		if err != nil {
			log.Printf("[WARN] event %s has a malformed schedule: %v", ev.EventID, err)
			continue
		}
		if derived == scheduling.StatusOngoing {
			out = append(out, ev)
		}
	}
	return out, nil
}

// ScanResult is the outcome of one QR verification.
type ScanResult struct {
	Registration    regModel.RegistrationModel
	Student         userModel.UserModel
	AlreadyAttended bool
}

// VerifyCode checks a scanned code against an event and records attendance.
// Scanning the same ticket twice reports the original check-in time instead
// of failing.
func (s *AttendanceService) VerifyCode(eventID uuid.UUID, code string, departmentID *uuid.UUID) (*ScanResult, error) {
	var ev eventModel.EventModel
	err := s.DB.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if departmentID != nil && (ev.EventDepartmentID == nil || *ev.EventDepartmentID != *departmentID) {
		return nil, ErrNotEventOwner
	}

	derived, err := scheduling.DeriveDisplayStatus(ev.EventStatus, ev.EventDate, ev.EventStartTime, ev.EventEndTime, scheduling.Now())
	if err != nil {
		return nil, err
	}
	if derived != scheduling.StatusOngoing {
		return nil, ErrEventNotOngoing
	}

	var result ScanResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var reg regModel.RegistrationModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("registration_event_id = ? AND registration_unique_code = ? AND registration_status = ?",
				eventID, code, regModel.RegistrationApproved).
			First(&reg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeNotFound
		}
		if err != nil {
			return err
		}

		if reg.RegistrationAttended {
			result.AlreadyAttended = true
		} else {
			now := time.Now()
			if err := tx.Model(&reg).Updates(map[string]interface{}{
				"registration_attended":    true,
				"registration_attended_at": now,
			}).Error; err != nil {
				return err
			}
			reg.RegistrationAttended = true
			reg.RegistrationAttendedAt = &now
		}

		result.Registration = reg
		return tx.Where("user_id = ?", reg.RegistrationStudentID).First(&result.Student).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AttendanceReport aggregates attendance for one event.
type AttendanceReport struct {
	Event    eventModel.EventModel
	Approved int64
	Attended int64
	Rows     []regModel.RegistrationModel
}

// Report builds the attendance summary for an event.
func (s *AttendanceService) Report(eventID uuid.UUID, departmentID *uuid.UUID) (*AttendanceReport, error) {
	var ev eventModel.EventModel
	err := s.DB.Where("event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if departmentID != nil && (ev.EventDepartmentID == nil || *ev.EventDepartmentID != *departmentID) {
		return nil, ErrNotEventOwner
	}

	report := AttendanceReport{Event: ev}
	if err := s.DB.Where("registration_event_id = ? AND registration_status = ?", eventID, regModel.RegistrationApproved).
		Order("registration_attended_at ASC NULLS LAST").
		Find(&report.Rows).Error; err != nil {
		return nil, err
	}
	report.Approved = int64(len(report.Rows))
	for _, r := range report.Rows {
		if r.RegistrationAttended {
			report.Attended++
		}
	}
	return &report, nil
}
