package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusetu/edusetu-api/internal/models"
)

func newTutorMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func tutorRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "phone", "subject", "classes", "location", "rating", "reviews", "experience", "price", "bio", "image", "plan", "status", "is_active", "verified", "created_at", "updated_at"}).
		AddRow("tutor-1", "Asha Verma", "asha@example.in", "9876501234", "Mathematics", "6-10", "Pune", 4.5, 12, "8 years", "500/hr", nil, nil, "Monthly", "approved", true, true, time.Now(), time.Now())
}

func TestTutorRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newTutorMock(t)
	defer cleanup()
	repo := NewTutorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, phone, subject, classes, location, rating, reviews, experience, price, bio, image, plan, status, is_active, verified, created_at, updated_at FROM tutors WHERE is_active = TRUE ORDER BY created_at DESC")).
		WillReturnRows(tutorRows())

	tutors, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, tutors, 1)
	assert.Equal(t, "Asha Verma", tutors[0].Name)
	assert.True(t, tutors[0].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTutorRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newTutorMock(t)
	defer cleanup()
	repo := NewTutorRepository(db)

	mock.ExpectQuery("SELECT .+ FROM tutors WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTutorRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newTutorMock(t)
	defer cleanup()
	repo := NewTutorRepository(db)

	mock.ExpectExec("INSERT INTO tutors").
		WillReturnResult(sqlmock.NewResult(1, 1))

	tutor := &models.Tutor{Name: "Asha Verma", Email: "asha@example.in", Phone: "9876501234", Subject: "Mathematics", Classes: "6-10", Location: "Pune", Experience: "8 years", Price: "500/hr", Plan: models.TutorPlanMonthly, Status: models.TutorStatusPending}
	err := repo.Create(context.Background(), tutor)
	require.NoError(t, err)
	assert.NotEmpty(t, tutor.ID)
	assert.False(t, tutor.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTutorRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newTutorMock(t)
	defer cleanup()
	repo := NewTutorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tutors SET status = $2, is_active = $3, verified = $4, updated_at = $5 WHERE id = $1")).
		WithArgs("tutor-1", models.TutorStatusApproved, true, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "tutor-1", models.TutorStatusApproved, true, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTutorRepositorySetActive(t *testing.T) {
	db, mock, cleanup := newTutorMock(t)
	defer cleanup()
	repo := NewTutorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tutors SET is_active = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("tutor-1", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetActive(context.Background(), "tutor-1", false)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTutorRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newTutorMock(t)
	defer cleanup()
	repo := NewTutorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tutors WHERE id = $1")).
		WithArgs("tutor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "tutor-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
