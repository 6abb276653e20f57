package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusetu/edusetu-api/internal/models"
	"github.com/edusetu/edusetu-api/internal/service"
)

type bootstrapRepoFake struct {
	user    *models.User
	binding *models.RoleBinding
}

func (f *bootstrapRepoFake) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, sql.ErrNoRows
}

func (f *bootstrapRepoFake) Create(ctx context.Context, user *models.User) error {
	user.ID = "user-1"
	f.user = user
	return nil
}

func (f *bootstrapRepoFake) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if f.user != nil && f.user.ID == id {
		f.user.PasswordHash = passwordHash
	}
	return nil
}

func (f *bootstrapRepoFake) FindRoleBinding(ctx context.Context, userID string, role models.UserRole) (*models.RoleBinding, error) {
	if f.binding != nil && f.binding.UserID == userID && f.binding.Role == role {
		return f.binding, nil
	}
	return nil, sql.ErrNoRows
}

func (f *bootstrapRepoFake) CreateRoleBinding(ctx context.Context, binding *models.RoleBinding) error {
	f.binding = binding
	return nil
}

func (f *bootstrapRepoFake) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return nil
}

func newBootstrapHandler(enabled bool) (*BootstrapHandler, *bootstrapRepoFake) {
	repo := &bootstrapRepoFake{}
	svc := service.NewBootstrapService(repo, zap.NewNop(), "root@edusetu.in", "initial-pass")
	return NewBootstrapHandler(svc, enabled), repo
}

func performSetup(t *testing.T, handler *BootstrapHandler) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/setup-super-admin", nil)
	require.NoError(t, err)
	c.Request = req

	handler.Setup(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestBootstrapSetupDisabled(t *testing.T) {
	handler, _ := newBootstrapHandler(false)

	w, body := performSetup(t, handler)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "setup endpoint is disabled", body["error"])
}

func TestBootstrapSetupCreates(t *testing.T) {
	handler, repo := newBootstrapHandler(true)

	w, body := performSetup(t, handler)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Super admin created successfully.", body["message"])

	credentials, ok := body["credentials"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "root@edusetu.in", credentials["email"])
	assert.Equal(t, "initial-pass", credentials["password"])

	require.NotNil(t, repo.user)
	require.NotNil(t, repo.binding)
	assert.Equal(t, models.RoleSuperAdmin, repo.binding.Role)
}

func TestBootstrapSetupRepeatResetsPassword(t *testing.T) {
	handler, _ := newBootstrapHandler(true)

	_, _ = performSetup(t, handler)
	w, body := performSetup(t, handler)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Super admin is ready. Password has been reset.", body["message"])
}
