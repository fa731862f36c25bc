package service

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cesms_backend/internals/features/events/scheduling"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func freezeNow(t *testing.T, at time.Time) {
	t.Helper()
	restore := scheduling.Now
	scheduling.Now = func() time.Time { return at }
	t.Cleanup(func() { scheduling.Now = restore })
}

// An open event issues no scannable codes, so a registration alone makes the
// student eligible; resubmitting replaces the stored rating.
func TestSubmitFreeForAllRegistrantNeedsNoCheckIn(t *testing.T) {
	db, mock := newTestDB(t)
	svc := &FeedbackService{DB: db}

	freezeNow(t, time.Date(2025, 6, 2, 12, 0, 0, 0, scheduling.ManilaTZ))

	eventID := uuid.New()
	studentID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "events" WHERE event_id`).
		WillReturnRows(sqlmock.NewRows([]string{
			"event_id", "event_name", "event_date", "event_start_time", "event_end_time",
			"event_participant_limit", "event_status",
		}).AddRow(eventID.String(), "Orientation", "2025-06-01", "08:00:00", "10:00:00", nil, "Active"))

	// Only the event and student bind; no attended filter for an open event.
	mock.ExpectQuery(`registration_student_id = \$2 ORDER BY`).
		WillReturnRows(sqlmock.NewRows([]string{
			"registration_id", "registration_event_id", "registration_student_id",
			"registration_status", "registration_attended",
		}).AddRow(uuid.NewString(), eventID.String(), studentID.String(), "Approved", false))

	mock.ExpectQuery(`SELECT \* FROM "event_feedback" WHERE event_feedback_event_id`).
		WillReturnRows(sqlmock.NewRows([]string{
			"event_feedback_id", "event_feedback_event_id", "event_feedback_student_id",
			"event_feedback_rating", "event_feedback_comment",
		}).AddRow(uuid.NewString(), eventID.String(), studentID.String(), 3, "ok"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "event_feedback" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fb, created, err := svc.Submit(eventID, studentID, 5, "great talk")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 5, fb.EventFeedbackRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitLimitedEventRequiresCheckIn(t *testing.T) {
	db, mock := newTestDB(t)
	svc := &FeedbackService{DB: db}

	freezeNow(t, time.Date(2025, 6, 2, 12, 0, 0, 0, scheduling.ManilaTZ))

	eventID := uuid.New()
	studentID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "events" WHERE event_id`).
		WillReturnRows(sqlmock.NewRows([]string{
			"event_id", "event_name", "event_date", "event_start_time", "event_end_time",
			"event_participant_limit", "event_status",
		}).AddRow(eventID.String(), "Seminar", "2025-06-01", "08:00:00", "10:00:00", 50, "Active"))

	// The attended filter stays for limited-seat events.
	mock.ExpectQuery(`registration_attended = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"registration_id"}))

	_, _, err := svc.Submit(eventID, studentID, 4, "")
	assert.ErrorIs(t, err, ErrDidNotAttend)
	assert.NoError(t, mock.ExpectationsWereMet())
}
