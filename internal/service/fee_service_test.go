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

const (
	testSchoolID  = "c7a1e2d4-0000-4000-8000-000000000001"
	otherSchoolID = "c7a1e2d4-0000-4000-8000-000000000002"
	testStudentID = "c7a1e2d4-0000-4000-8000-000000000010"
)

type mockFeeRepo struct {
	seq     int
	details map[string]*models.FeeDetail
}

func newMockFeeRepo() *mockFeeRepo {
	return &mockFeeRepo{details: make(map[string]*models.FeeDetail)}
}

func (m *mockFeeRepo) ListBySchool(ctx context.Context, schoolID string) ([]models.FeeDetail, error) {
	var out []models.FeeDetail
	for _, d := range m.details {
		if d.SchoolID == schoolID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockFeeRepo) FindByID(ctx context.Context, id string) (*models.FeeDetail, error) {
	d, ok := m.details[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *d
	return &copied, nil
}

func (m *mockFeeRepo) Create(ctx context.Context, record *models.FeeRecord, items []models.FeeItem) error {
	m.seq++
	record.ID = fmt.Sprintf("fee-%d", m.seq)
	m.details[record.ID] = &models.FeeDetail{
		FeeRecord:   *record,
		StudentName: "Rohan Patil",
		RollNo:      "17",
		Class:       "8",
		Section:     "A",
		Items:       items,
	}
	return nil
}

func (m *mockFeeRepo) Update(ctx context.Context, record *models.FeeRecord, items []models.FeeItem) error {
	d, ok := m.details[record.ID]
	if !ok {
		return sql.ErrNoRows
	}
	d.FeeRecord = *record
	d.Items = items
	return nil
}

func (m *mockFeeRepo) Delete(ctx context.Context, id string) error {
	delete(m.details, id)
	return nil
}

type mockFeeStudentRepo struct {
	students map[string]*models.Student
}

func (m *mockFeeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func newFeeService() (*FeeService, *mockFeeRepo) {
	repo := newMockFeeRepo()
	students := &mockFeeStudentRepo{students: map[string]*models.Student{
		testStudentID: {ID: testStudentID, SchoolID: testSchoolID, FullName: "Rohan Patil", RollNo: "17", Class: "8", Section: "A"},
	}}
	return NewFeeService(repo, students, nil, zap.NewNop()), repo
}

func feeRequest(items ...models.FeeItemRequest) models.FeeRequest {
	return models.FeeRequest{StudentID: testStudentID, Items: items}
}

func TestFeeCreateDerivesTotalsPending(t *testing.T) {
	svc, _ := newFeeService()

	detail, err := svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000},
		models.FeeItemRequest{FeeType: "Bus", Amount: 6000},
	))
	require.NoError(t, err)
	assert.Equal(t, int64(26000), detail.TotalAmount)
	assert.Equal(t, int64(0), detail.PaidAmount)
	assert.Equal(t, models.FeeStatusPending, detail.Status)
}

func TestFeeCreateDerivesTotalsPartial(t *testing.T) {
	svc, _ := newFeeService()

	detail, err := svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000, Paid: true},
		models.FeeItemRequest{FeeType: "Bus", Amount: 6000},
	))
	require.NoError(t, err)
	assert.Equal(t, int64(20000), detail.PaidAmount)
	assert.Equal(t, models.FeeStatusPartial, detail.Status)
}

func TestFeeCreateDerivesTotalsPaid(t *testing.T) {
	svc, _ := newFeeService()

	detail, err := svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000, Paid: true},
	))
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusPaid, detail.Status)
}

func TestFeeCreateRejectsEmptyItems(t *testing.T) {
	svc, _ := newFeeService()

	_, err := svc.Create(context.Background(), testSchoolID, feeRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFeeCreateStudentFromAnotherSchool(t *testing.T) {
	svc, _ := newFeeService()

	_, err := svc.Create(context.Background(), otherSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000},
	))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFeeUpdateRecomputesStatus(t *testing.T) {
	svc, _ := newFeeService()

	detail, err := svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000},
	))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), testSchoolID, detail.ID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000, Paid: true},
		models.FeeItemRequest{FeeType: "Books", Amount: 3000, Paid: true},
	))
	require.NoError(t, err)
	assert.Equal(t, int64(23000), updated.TotalAmount)
	assert.Equal(t, models.FeeStatusPaid, updated.Status)
	require.Len(t, updated.Items, 2)
}

func TestFeeGetScopedToSchool(t *testing.T) {
	svc, _ := newFeeService()

	detail, err := svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000},
	))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), otherSchoolID, detail.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFeeSummaryAggregates(t *testing.T) {
	svc, _ := newFeeService()

	_, err := svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000, Paid: true},
	))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000, Paid: true},
		models.FeeItemRequest{FeeType: "Bus", Amount: 6000},
	))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 15000},
	))
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), testSchoolID, models.FeeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(61000), summary.TotalBilled)
	assert.Equal(t, int64(40000), summary.TotalCollected)
	assert.Equal(t, int64(21000), summary.TotalOutstanding)
	assert.Equal(t, 1, summary.PaidCount)
	assert.Equal(t, 1, summary.PartialCount)
	assert.Equal(t, 1, summary.PendingCount)
}

func TestFeeExportCSV(t *testing.T) {
	svc, _ := newFeeService()

	_, err := svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000, Paid: true},
	))
	require.NoError(t, err)

	data, err := svc.ExportCSV(context.Background(), testSchoolID, models.FeeFilter{})
	require.NoError(t, err)
	body := string(data)
	assert.True(t, strings.HasPrefix(body, "Roll No,Student,Class,Total,Paid,Outstanding,Status"))
	assert.Contains(t, body, "Rohan Patil")
	assert.Contains(t, body, "8-A")
	assert.Contains(t, body, "20000")
}

func TestFeeDeleteScopedToSchool(t *testing.T) {
	svc, repo := newFeeService()

	detail, err := svc.Create(context.Background(), testSchoolID, feeRequest(
		models.FeeItemRequest{FeeType: "Tuition", Amount: 20000},
	))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), otherSchoolID, detail.ID)
	require.Error(t, err)

	err = svc.Delete(context.Background(), testSchoolID, detail.ID)
	require.NoError(t, err)
	assert.Empty(t, repo.details)
}
