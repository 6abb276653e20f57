package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edusetu/edusetu-api/internal/models"
)

type mockBootstrapRepo struct {
	seq      int
	users    map[string]*models.User
	bindings []*models.RoleBinding
	audits   []*models.AuditLog
}

func newMockBootstrapRepo() *mockBootstrapRepo {
	return &mockBootstrapRepo{users: make(map[string]*models.User)}
}

func (m *mockBootstrapRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockBootstrapRepo) Create(ctx context.Context, user *models.User) error {
	m.seq++
	user.ID = fmt.Sprintf("user-%d", m.seq)
	m.users[user.ID] = user
	return nil
}

func (m *mockBootstrapRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
		u.UpdatedAt = updatedAt
	}
	return nil
}

func (m *mockBootstrapRepo) FindRoleBinding(ctx context.Context, userID string, role models.UserRole) (*models.RoleBinding, error) {
	for _, b := range m.bindings {
		if b.UserID == userID && b.Role == role {
			return b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockBootstrapRepo) CreateRoleBinding(ctx context.Context, binding *models.RoleBinding) error {
	m.bindings = append(m.bindings, binding)
	return nil
}

func (m *mockBootstrapRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.audits = append(m.audits, log)
	return nil
}

func TestBootstrapCreatesSuperAdmin(t *testing.T) {
	repo := newMockBootstrapRepo()
	svc := NewBootstrapService(repo, zap.NewNop(), "root@edusetu.in", "bootstrap-pass")

	result, err := svc.EnsureSuperAdmin(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "root@edusetu.in", result.Email)
	assert.Equal(t, "bootstrap-pass", result.Password)

	user, err := repo.FindByEmail(context.Background(), "root@edusetu.in")
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.True(t, user.EmailConfirmed)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("bootstrap-pass")))

	require.Len(t, repo.bindings, 1)
	assert.Equal(t, models.RoleSuperAdmin, repo.bindings[0].Role)
	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionBootstrap, repo.audits[0].Action)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	repo := newMockBootstrapRepo()
	svc := NewBootstrapService(repo, zap.NewNop(), "root@edusetu.in", "bootstrap-pass")

	first, err := svc.EnsureSuperAdmin(context.Background())
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.EnsureSuperAdmin(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Created)

	assert.Len(t, repo.users, 1)
	assert.Len(t, repo.bindings, 1)
}

func TestBootstrapRepairsMissingBinding(t *testing.T) {
	repo := newMockBootstrapRepo()
	svc := NewBootstrapService(repo, zap.NewNop(), "root@edusetu.in", "bootstrap-pass")

	_, err := svc.EnsureSuperAdmin(context.Background())
	require.NoError(t, err)

	repo.bindings = nil

	result, err := svc.EnsureSuperAdmin(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Created)
	require.Len(t, repo.bindings, 1)
}
