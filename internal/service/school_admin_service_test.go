package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
)

type mockSchoolAdminRepo struct {
	seq    int
	users  map[string]*models.User
	admins map[string]*models.SchoolAdminDetail
	audits []*models.AuditLog
}

func newMockSchoolAdminRepo() *mockSchoolAdminRepo {
	return &mockSchoolAdminRepo{
		users:  make(map[string]*models.User),
		admins: make(map[string]*models.SchoolAdminDetail),
	}
}

func (m *mockSchoolAdminRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSchoolAdminRepo) CreateUserWithRole(ctx context.Context, user *models.User, binding *models.RoleBinding) error {
	m.seq++
	user.ID = fmt.Sprintf("user-%d", m.seq)
	binding.ID = fmt.Sprintf("binding-%d", m.seq)
	binding.UserID = user.ID
	m.users[user.ID] = user
	m.admins[binding.ID] = &models.SchoolAdminDetail{
		RoleBinding: *binding,
		Email:       user.Email,
		FullName:    user.FullName,
	}
	return nil
}

func (m *mockSchoolAdminRepo) ListSchoolAdmins(ctx context.Context) ([]models.SchoolAdminDetail, error) {
	var out []models.SchoolAdminDetail
	for _, a := range m.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockSchoolAdminRepo) FindSchoolAdmin(ctx context.Context, bindingID string) (*models.SchoolAdminDetail, error) {
	a, ok := m.admins[bindingID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockSchoolAdminRepo) Delete(ctx context.Context, id string) error {
	delete(m.users, id)
	for bindingID, a := range m.admins {
		if a.UserID == id {
			delete(m.admins, bindingID)
		}
	}
	return nil
}

func (m *mockSchoolAdminRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.audits = append(m.audits, log)
	return nil
}

type mockAdminSchoolRepo struct {
	schools map[string]*models.School
}

func (m *mockAdminSchoolRepo) FindByID(ctx context.Context, id string) (*models.School, error) {
	s, ok := m.schools[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func newSchoolAdminService() (*SchoolAdminService, *mockSchoolAdminRepo) {
	repo := newMockSchoolAdminRepo()
	schools := &mockAdminSchoolRepo{schools: map[string]*models.School{
		testSchoolID: {ID: testSchoolID, Name: "Sunrise Public School"},
	}}
	return NewSchoolAdminService(repo, schools, nil, zap.NewNop()), repo
}

func adminCreateRequest() models.SchoolAdminCreateRequest {
	return models.SchoolAdminCreateRequest{
		Email:    "principal@sunrise.in",
		Password: "secret123",
		FullName: "Sunita Rao",
		SchoolID: testSchoolID,
	}
}

func TestSchoolAdminCreate(t *testing.T) {
	svc, repo := newSchoolAdminService()

	admin, err := svc.Create(context.Background(), adminCreateRequest(), "actor-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSchoolAdmin, admin.Role)
	require.NotNil(t, admin.SchoolID)
	assert.Equal(t, testSchoolID, *admin.SchoolID)
	assert.Equal(t, "principal@sunrise.in", admin.Email)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionAdminCreate, repo.audits[0].Action)
}

func TestSchoolAdminCreateDuplicateEmail(t *testing.T) {
	svc, _ := newSchoolAdminService()

	_, err := svc.Create(context.Background(), adminCreateRequest(), "actor-1")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), adminCreateRequest(), "actor-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAlreadyRegistered.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "principal@sunrise.in")
}

func TestSchoolAdminCreateUnknownSchool(t *testing.T) {
	svc, _ := newSchoolAdminService()

	req := adminCreateRequest()
	req.SchoolID = otherSchoolID
	_, err := svc.Create(context.Background(), req, "actor-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSchoolAdminCreateValidation(t *testing.T) {
	svc, _ := newSchoolAdminService()

	req := adminCreateRequest()
	req.Password = "123"
	_, err := svc.Create(context.Background(), req, "actor-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSchoolAdminDelete(t *testing.T) {
	svc, repo := newSchoolAdminService()

	admin, err := svc.Create(context.Background(), adminCreateRequest(), "actor-1")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), admin.ID, "actor-1")
	require.NoError(t, err)
	assert.Empty(t, repo.admins)
	assert.Empty(t, repo.users)

	err = svc.Delete(context.Background(), admin.ID, "actor-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
