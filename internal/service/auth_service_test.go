package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
)

type mockAuthRepo struct {
	users    map[string]*models.User
	bindings map[string]*models.RoleBinding
	tokens   map[string]*models.RefreshToken
	audits   []*models.AuditLog
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{
		users:    make(map[string]*models.User),
		bindings: make(map[string]*models.RoleBinding),
		tokens:   make(map[string]*models.RefreshToken),
	}
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockAuthRepo) FindRoleByUser(ctx context.Context, userID string) (*models.RoleBinding, error) {
	b, ok := m.bindings[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLogin = &ts
	}
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
		u.UpdatedAt = updatedAt
	}
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, t := range m.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, t := range m.tokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.audits = append(m.audits, log)
	return nil
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	})
}

func seedAdmin(repo *mockAuthRepo, password string, role models.UserRole, schoolID *string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{
		ID:           "user-1",
		Email:        "admin@edusetu.in",
		PasswordHash: string(hash),
		FullName:     "Priya Sharma",
		Active:       true,
	}
	repo.users[user.ID] = user
	repo.bindings[user.ID] = &models.RoleBinding{
		ID:       "binding-1",
		UserID:   user.ID,
		Role:     role,
		SchoolID: schoolID,
	}
	return user
}

func TestLoginIssuesTokensWithSchoolClaim(t *testing.T) {
	repo := newMockAuthRepo()
	schoolID := "school-9"
	seedAdmin(repo, "secret123", models.RoleSchoolAdmin, &schoolID)
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@edusetu.in",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleSchoolAdmin, resp.User.Role)
	require.NotNil(t, resp.User.SchoolID)
	assert.Equal(t, schoolID, *resp.User.SchoolID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleSchoolAdmin, claims.Role)
	require.NotNil(t, claims.SchoolID)
	assert.Equal(t, schoolID, *claims.SchoolID)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionLogin, repo.audits[0].Action)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMockAuthRepo()
	seedAdmin(repo, "secret123", models.RoleSuperAdmin, nil)
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@edusetu.in",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@edusetu.in",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newMockAuthRepo()
	user := seedAdmin(repo, "secret123", models.RoleSuperAdmin, nil)
	user.Active = false
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@edusetu.in",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestLoginWithoutRoleBinding(t *testing.T) {
	repo := newMockAuthRepo()
	user := seedAdmin(repo, "secret123", models.RoleSuperAdmin, nil)
	delete(repo.bindings, user.ID)
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@edusetu.in",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newMockAuthRepo()
	seedAdmin(repo, "secret123", models.RoleSuperAdmin, nil)
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@edusetu.in",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked and cannot be replayed.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestRefreshExpiredToken(t *testing.T) {
	repo := newMockAuthRepo()
	seedAdmin(repo, "secret123", models.RoleSuperAdmin, nil)
	repo.tokens["stale"] = &models.RefreshToken{
		ID:        "token-1",
		UserID:    "user-1",
		Token:     "stale",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	svc := newAuthService(repo)

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	repo := newMockAuthRepo()
	seedAdmin(repo, "secret123", models.RoleSuperAdmin, nil)
	repo.tokens["other"] = &models.RefreshToken{
		ID:        "token-2",
		UserID:    "someone-else",
		Token:     "other",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	svc := newAuthService(repo)

	err := svc.Logout(context.Background(), "other", "user-1", models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	repo := newMockAuthRepo()
	seedAdmin(repo, "secret123", models.RoleSuperAdmin, nil)
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@edusetu.in",
		Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "newSecret456",
	})
	require.NoError(t, err)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// Old password no longer works, the new one does.
	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@edusetu.in",
		Password: "secret123",
	})
	require.Error(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@edusetu.in",
		Password: "newSecret456",
	})
	require.NoError(t, err)
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	repo := newMockAuthRepo()
	seedAdmin(repo, "secret123", models.RoleSuperAdmin, nil)
	svc := newAuthService(repo)

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "nope",
		NewPassword: "newSecret456",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())

	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
}
