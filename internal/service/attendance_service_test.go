package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
)

type mockAttendanceRepo struct {
	// keyed by studentID + date
	marks   map[string]models.AttendanceStatus
	roster  []models.AttendanceEntry
	markErr error
}

func attendanceKey(studentID string, date time.Time) string {
	return studentID + "|" + date.Format("2006-01-02")
}

func (m *mockAttendanceRepo) Roster(ctx context.Context, schoolID string, date time.Time) ([]models.AttendanceEntry, error) {
	entries := make([]models.AttendanceEntry, len(m.roster))
	copy(entries, m.roster)
	for i := range entries {
		if status, ok := m.marks[attendanceKey(entries[i].StudentID, date)]; ok {
			s := status
			entries[i].Status = &s
		}
	}
	return entries, nil
}

func (m *mockAttendanceRepo) Mark(ctx context.Context, record *models.AttendanceRecord) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.marks[attendanceKey(record.StudentID, record.Date)] = *record.Status
	return nil
}

type mockAttendanceStudentRepo struct {
	students map[string]*models.Student
}

func (m *mockAttendanceStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

const secondStudentID = "c7a1e2d4-0000-4000-8000-000000000011"

func newAttendanceService() (*AttendanceService, *mockAttendanceRepo) {
	repo := &mockAttendanceRepo{
		marks: make(map[string]models.AttendanceStatus),
		roster: []models.AttendanceEntry{
			{StudentID: testStudentID, FullName: "Rohan Patil", RollNo: "17"},
			{StudentID: secondStudentID, FullName: "Meera Kulkarni", RollNo: "21"},
		},
	}
	students := &mockAttendanceStudentRepo{students: map[string]*models.Student{
		testStudentID:   {ID: testStudentID, SchoolID: testSchoolID},
		secondStudentID: {ID: secondStudentID, SchoolID: testSchoolID},
	}}
	return NewAttendanceService(repo, students, nil, zap.NewNop()), repo
}

func TestAttendanceRosterCountsUnmarked(t *testing.T) {
	svc, _ := newAttendanceService()

	roster, err := svc.Roster(context.Background(), testSchoolID, time.Now().UTC())
	require.NoError(t, err)
	assert.Len(t, roster.Entries, 2)
	assert.Equal(t, 2, roster.Summary.Unmarked)
	assert.Equal(t, 0, roster.Summary.Present)
}

func TestAttendanceMarkAndSummarize(t *testing.T) {
	svc, _ := newAttendanceService()
	day := "2026-08-31"

	err := svc.Mark(context.Background(), testSchoolID, AttendanceMarkRequest{
		StudentID: testStudentID,
		Date:      day,
		Status:    models.AttendancePresent,
	})
	require.NoError(t, err)

	err = svc.Mark(context.Background(), testSchoolID, AttendanceMarkRequest{
		StudentID: secondStudentID,
		Date:      day,
		Status:    models.AttendanceLate,
	})
	require.NoError(t, err)

	date, _ := time.Parse("2006-01-02", day)
	roster, err := svc.Roster(context.Background(), testSchoolID, date)
	require.NoError(t, err)
	assert.Equal(t, 1, roster.Summary.Present)
	assert.Equal(t, 1, roster.Summary.Late)
	assert.Equal(t, 0, roster.Summary.Unmarked)
}

func TestAttendanceRemarkOverwrites(t *testing.T) {
	svc, repo := newAttendanceService()
	day := "2026-08-31"

	for _, status := range []models.AttendanceStatus{models.AttendanceAbsent, models.AttendancePresent} {
		err := svc.Mark(context.Background(), testSchoolID, AttendanceMarkRequest{
			StudentID: testStudentID,
			Date:      day,
			Status:    status,
		})
		require.NoError(t, err)
	}

	date, _ := time.Parse("2006-01-02", day)
	assert.Equal(t, models.AttendancePresent, repo.marks[attendanceKey(testStudentID, date)])
}

func TestAttendanceMarkValidation(t *testing.T) {
	svc, _ := newAttendanceService()

	err := svc.Mark(context.Background(), testSchoolID, AttendanceMarkRequest{
		StudentID: testStudentID,
		Date:      "31-08-2026",
		Status:    models.AttendancePresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	err = svc.Mark(context.Background(), testSchoolID, AttendanceMarkRequest{
		StudentID: testStudentID,
		Date:      "2026-08-31",
		Status:    "holiday",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceMarkCrossSchoolStudent(t *testing.T) {
	svc, _ := newAttendanceService()

	err := svc.Mark(context.Background(), otherSchoolID, AttendanceMarkRequest{
		StudentID: testStudentID,
		Date:      "2026-08-31",
		Status:    models.AttendancePresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
