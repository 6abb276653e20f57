package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
)

type mockStudentRepo struct {
	seq      int
	students map[string]*models.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*models.Student)}
}

func (m *mockStudentRepo) ListBySchool(ctx context.Context, schoolID string) ([]models.Student, error) {
	var out []models.Student
	for _, st := range m.students {
		if st.SchoolID == schoolID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	st, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *st
	return &copied, nil
}

func (m *mockStudentRepo) ExistsByRollNo(ctx context.Context, schoolID, rollNo, excludeID string) (bool, error) {
	for _, st := range m.students {
		if st.SchoolID == schoolID && st.RollNo == rollNo && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.seq++
	student.ID = fmt.Sprintf("student-%d", m.seq)
	copied := *student
	m.students[student.ID] = &copied
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *student
	m.students[student.ID] = &copied
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func newStudentService() (*StudentService, *mockStudentRepo) {
	repo := newMockStudentRepo()
	return NewStudentService(repo, nil, zap.NewNop()), repo
}

func studentRequest(rollNo string) models.StudentRequest {
	return models.StudentRequest{
		FullName:      "Meera Kulkarni",
		RollNo:        rollNo,
		Class:         "6",
		Section:       "B",
		GuardianPhone: "9822011223",
		Active:        true,
	}
}

func TestStudentCreate(t *testing.T) {
	svc, _ := newStudentService()

	student, err := svc.Create(context.Background(), testSchoolID, studentRequest("21"))
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, testSchoolID, student.SchoolID)
	assert.Equal(t, "21", student.RollNo)
}

func TestStudentCreateDuplicateRollNo(t *testing.T) {
	svc, _ := newStudentService()

	_, err := svc.Create(context.Background(), testSchoolID, studentRequest("21"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), testSchoolID, studentRequest("21"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "roll number 21")
}

func TestStudentSameRollNoDifferentSchools(t *testing.T) {
	svc, _ := newStudentService()

	_, err := svc.Create(context.Background(), testSchoolID, studentRequest("21"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), otherSchoolID, studentRequest("21"))
	require.NoError(t, err)
}

func TestStudentUpdateRollNoConflict(t *testing.T) {
	svc, _ := newStudentService()

	_, err := svc.Create(context.Background(), testSchoolID, studentRequest("21"))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), testSchoolID, studentRequest("22"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), testSchoolID, second.ID, studentRequest("21"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	// Keeping its own roll number is not a conflict.
	_, err = svc.Update(context.Background(), testSchoolID, second.ID, studentRequest("22"))
	require.NoError(t, err)
}

func TestStudentCrossSchoolAccessIsNotFound(t *testing.T) {
	svc, _ := newStudentService()

	student, err := svc.Create(context.Background(), testSchoolID, studentRequest("21"))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), otherSchoolID, student.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), otherSchoolID, student.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentCreateValidation(t *testing.T) {
	svc, _ := newStudentService()

	req := studentRequest("21")
	req.GuardianPhone = "123"
	_, err := svc.Create(context.Background(), testSchoolID, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentListFilters(t *testing.T) {
	svc, _ := newStudentService()

	_, err := svc.Create(context.Background(), testSchoolID, studentRequest("21"))
	require.NoError(t, err)

	req := studentRequest("35")
	req.FullName = "Arjun Deshmukh"
	req.Class = "7"
	_, err = svc.Create(context.Background(), testSchoolID, req)
	require.NoError(t, err)

	byClass, err := svc.List(context.Background(), testSchoolID, models.StudentFilter{Class: "7"})
	require.NoError(t, err)
	require.Len(t, byClass, 1)
	assert.Equal(t, "Arjun Deshmukh", byClass[0].FullName)

	bySearch, err := svc.List(context.Background(), testSchoolID, models.StudentFilter{Search: "meera"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Meera Kulkarni", bySearch[0].FullName)

	all, err := svc.List(context.Background(), testSchoolID, models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStudentExportCSV(t *testing.T) {
	svc, _ := newStudentService()

	_, err := svc.Create(context.Background(), testSchoolID, studentRequest("21"))
	require.NoError(t, err)

	data, err := svc.ExportCSV(context.Background(), testSchoolID, models.StudentFilter{})
	require.NoError(t, err)
	body := string(data)
	assert.True(t, strings.HasPrefix(body, "Roll No,Name,Class,Section,Guardian Phone,Status"))
	assert.Contains(t, body, "Meera Kulkarni")
	assert.Contains(t, body, "1 students")
}
