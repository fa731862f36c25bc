package service

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
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

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	db, mock := newTestDB(t)
	svc := &AuthService{DB: db}

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := svc.Signup("Juan Dela Cruz", "juan.delacruz@lspu.edu.ph", "Sample123", "student", "2021-00123", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRejectsDuplicateStudentNumber(t *testing.T) {
	db, mock := newTestDB(t)
	svc := &AuthService{DB: db}

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := svc.Signup("Juan Dela Cruz", "juan.delacruz@lspu.edu.ph", "Sample123", "student", "2021-00123", "")
	assert.ErrorIs(t, err, ErrStudentNumberTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupSkipsStudentNumberCheckForDepartments(t *testing.T) {
	db, mock := newTestDB(t)
	svc := &AuthService{DB: db}

	// Department accounts only hit the email check; the signup then fails on
	// the insert because no further expectations are queued.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := svc.Signup("College of Engineering", "coe.office@lspu.edu.ph", "Sample123", "department", "", "College of Engineering")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrStudentNumberTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
