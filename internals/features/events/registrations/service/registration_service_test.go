package service

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestRejectStampsRejectedAt(t *testing.T) {
	db, mock := newTestDB(t)
	svc := &RegistrationService{DB: db}

	regID := uuid.New()
	eventID := uuid.New()
	deptID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "registrations" WHERE registration_id = \$1 (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"registration_id", "registration_event_id", "registration_student_id", "registration_status",
		}).AddRow(regID.String(), eventID.String(), uuid.NewString(), "Pending"))
	mock.ExpectQuery(`SELECT \* FROM "events" WHERE event_id`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "event_department_id"}).
			AddRow(eventID.String(), deptID.String()))
	mock.ExpectExec(`UPDATE "registrations" SET (.*)"registration_rejected_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Reject(regID, deptID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectRefusesForeignEvent(t *testing.T) {
	db, mock := newTestDB(t)
	svc := &RegistrationService{DB: db}

	regID := uuid.New()
	eventID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "registrations" WHERE registration_id = \$1 (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"registration_id", "registration_event_id", "registration_student_id", "registration_status",
		}).AddRow(regID.String(), eventID.String(), uuid.NewString(), "Pending"))
	mock.ExpectQuery(`SELECT \* FROM "events" WHERE event_id`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "event_department_id"}).
			AddRow(eventID.String(), uuid.NewString()))
	mock.ExpectRollback()

	err := svc.Reject(regID, uuid.New())
	assert.ErrorIs(t, err, ErrNotEventOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
