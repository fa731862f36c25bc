package scheduling

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	helper "cesms_backend/internals/helpers"
)

// Conflict origins, as reported to callers.
const (
	ConflictApprovedEvent  = "approved_event"
	ConflictPendingRequest = "pending_request"
)

// Conflict is one commitment that overlaps a candidate slot.
type Conflict struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Time string `json:"time"`
}

// ConflictError carries the full conflict list for a rejected slot.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	names := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		names = append(names, c.Name)
	}
	msg := "schedule conflict detected with: "
	for i, n := range names {
		if i > 0 {
			msg += ", "
		}
		msg += n
	}
	return msg
}

// CheckOptions narrows a conflict check.
// ExcludeRequestID skips the request itself plus any event materialized from
// it (re-check during edit/approval); ExcludeEventID skips the event itself
// (postponement re-check).
type CheckOptions struct {
	ExcludeRequestID string
	ExcludeEventID   string
}

// Detector decides whether a proposed (location, date, start, end) slot
// overlaps an Active event or a Pending request on the same location+date.
//
// FailOpen reproduces the legacy behavior of treating unparseable stored
// times as a conflict; when off (the default) a parse failure surfaces as a
// MalformedScheduleError instead of silently blocking the slot.
type Detector struct {
	DB       *gorm.DB
	FailOpen bool
}

func NewDetector(db *gorm.DB) *Detector {
	failOpen := false
	if v := os.Getenv("CONFLICT_FAIL_OPEN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			failOpen = b
		}
	}
	return &Detector{DB: db, FailOpen: failOpen}
}

// slotRecord is the projection shared by both record sets.
type slotRecord struct {
	ID        string
	RequestID string
	Name      string
	StartTime string
	EndTime   string
}

// Check returns whether the candidate slot conflicts, with the ordered list
// of conflicting commitments (approved events first, then pending requests).
func (d *Detector) Check(location, date, startTime, endTime string, opts CheckOptions) (bool, []Conflict, error) {
	candStart, err := ParseClock("start_time", startTime)
	if err != nil {
		return d.parseFailure(err)
	}
	candEnd, err := ParseClock("end_time", endTime)
	if err != nil {
		return d.parseFailure(err)
	}

	var conflicts []Conflict

	// Set (a): events with stored status Active on the same location+date.
	var events []slotRecord
	if err := d.DB.Table("events").
		Select("event_id AS id, COALESCE(event_request_id::text, '') AS request_id, event_name AS name, event_start_time AS start_time, event_end_time AS end_time").
		Where("event_location = ? AND event_date = ? AND event_status = ?", location, date, StatusActive).
		Find(&events).Error; err != nil {
		return false, nil, fmt.Errorf("conflict check (events): %w", err)
	}

	for _, ev := range events {
		if opts.ExcludeEventID != "" && ev.ID == opts.ExcludeEventID {
			continue
		}
		if opts.ExcludeRequestID != "" && ev.RequestID == opts.ExcludeRequestID {
			continue
		}
		c, err := d.matchSlot(candStart, candEnd, ev, ConflictApprovedEvent)
		if err != nil {
			return d.parseFailure(err)
		}
		if c != nil {
			conflicts = append(conflicts, *c)
		}
	}

	// Set (b): pending requests on the same location+date.
	var requests []slotRecord
	if err := d.DB.Table("event_requests").
		Select("event_request_id AS id, event_request_id::text AS request_id, event_request_name AS name, event_request_start_time AS start_time, event_request_end_time AS end_time").
		Where("event_request_location = ? AND event_request_date = ? AND event_request_status = ?", location, date, "Pending").
		Find(&requests).Error; err != nil {
		return false, nil, fmt.Errorf("conflict check (requests): %w", err)
	}

	for _, req := range requests {
		if opts.ExcludeRequestID != "" && req.ID == opts.ExcludeRequestID {
			continue
		}
		c, err := d.matchSlot(candStart, candEnd, req, ConflictPendingRequest)
		if err != nil {
			return d.parseFailure(err)
		}
		if c != nil {
			conflicts = append(conflicts, *c)
		}
	}

	return len(conflicts) > 0, conflicts, nil
}

func (d *Detector) matchSlot(candStart, candEnd time.Time, rec slotRecord, origin string) (*Conflict, error) {
	recStart, err := ParseClock("start_time", rec.StartTime)
	if err != nil {
		return nil, err
	}
	recEnd, err := ParseClock("end_time", rec.EndTime)
	if err != nil {
		return nil, err
	}
	if !overlaps(candStart, candEnd, recStart, recEnd) {
		return nil, nil
	}
	return &Conflict{
		Type: origin,
		Name: rec.Name,
		Time: fmt.Sprintf("%s - %s", helper.Format12Hour(rec.StartTime), helper.Format12Hour(rec.EndTime)),
	}, nil
}

// parseFailure applies the configured parse-error policy.
func (d *Detector) parseFailure(err error) (bool, []Conflict, error) {
	if d.FailOpen {
		return true, []Conflict{{Type: "error", Name: "Error checking conflicts", Time: err.Error()}}, nil
	}
	return false, nil, err
}

// overlaps implements half-open interval overlap: [s1,e1) and [s2,e2)
// conflict iff s1 < e2 && e1 > s2. Touching boundaries do not conflict.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}
