package scheduling

import (
	"log"
	"time"

	"gorm.io/gorm"
)

// Stored event statuses. Ongoing only ever appears as a display status.
const (
	StatusActive    = "Active"
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// DeriveDisplayStatus computes the lifecycle state an event should be shown
// and acted on with, from its stored fields and the current time.
//
// Cancelled/Completed pass through unchanged. For Active events:
// a future date stays Active, a past date is Completed, and on the event
// day the clock decides: within [start, end] → Ongoing, past end → Completed.
func DeriveDisplayStatus(stored, dateStr, startStr, endStr string, now time.Time) (string, error) {
	if stored != StatusActive {
		return stored, nil
	}

	eventDate, err := ParseDate("date", dateStr)
	if err != nil {
		return "", err
	}
	start, err := ParseClock("start_time", startStr)
	if err != nil {
		return "", err
	}
	end, err := ParseClock("end_time", endStr)
	if err != nil {
		return "", err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	clock := time.Date(0, 1, 1, now.Hour(), now.Minute(), now.Second(), 0, time.UTC)

	switch {
	case eventDate.After(today):
		return StatusActive, nil
	case eventDate.Before(today):
		return StatusCompleted, nil
	default:
		// Event is today; [start, end] inclusive counts as Ongoing.
		if !clock.Before(start) && !clock.After(end) {
			return StatusOngoing, nil
		}
		if clock.After(end) {
			return StatusCompleted, nil
		}
		return StatusActive, nil
	}
}

// eventSchedule is the slim projection used by the reconciliation sweep.
type eventSchedule struct {
	EventID        string `gorm:"column:event_id"`
	EventDate      string `gorm:"column:event_date"`
	EventStartTime string `gorm:"column:event_start_time"`
	EventEndTime   string `gorm:"column:event_end_time"`
	EventStatus    string `gorm:"column:event_status"`
}

// ReconcileCompleted persists Completed for a single event whose derived
// status has passed its schedule. Best-effort cache write-back, idempotent:
// it only ever flips Active → Completed and is safe to call repeatedly.
func ReconcileCompleted(db *gorm.DB, eventID string, derived string) (bool, error) {
	if derived != StatusCompleted {
		return false, nil
	}
	res := db.Table("events").
		Where("event_id = ? AND event_status = ?", eventID, StatusActive).
		Update("event_status", StatusCompleted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AutoCompleteEvents sweeps all stored-Active events and persists Completed
// where the schedule has passed. Display status stays a pure function of the
// stored fields; this write-back only keeps the persisted column warm.
func AutoCompleteEvents(db *gorm.DB) (int, error) {
	var rows []eventSchedule
	if err := db.Table("events").
		Select("event_id, event_date, event_start_time, event_end_time, event_status").
		Where("event_status = ?", StatusActive).
		Find(&rows).Error; err != nil {
		return 0, err
	}

	now := Now()
	updated := 0
	for _, ev := range rows {
		derived, err := DeriveDisplayStatus(ev.EventStatus, ev.EventDate, ev.EventStartTime, ev.EventEndTime, now)
		if err != nil {
			log.Printf("[WARN] skipping event %s in completion sweep: %v", ev.EventID, err)
			continue
		}
		ok, err := ReconcileCompleted(db, ev.EventID, derived)
		if err != nil {
			return updated, err
		}
		if ok {
			updated++
		}
	}
	return updated, nil
}
