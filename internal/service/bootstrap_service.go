package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
)

type bootstrapUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	FindRoleBinding(ctx context.Context, userID string, role models.UserRole) (*models.RoleBinding, error)
	CreateRoleBinding(ctx context.Context, binding *models.RoleBinding) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// BootstrapResult reports what the setup run did and the credentials
// the operator can sign in with.
type BootstrapResult struct {
	Created  bool
	Email    string
	Password string
}

// BootstrapService provisions the initial super admin account. The
// operation is idempotent: re-running it resets the password and
// repairs a missing role binding instead of failing.
type BootstrapService struct {
	repo     bootstrapUserRepository
	logger   *zap.Logger
	email    string
	password string
}

// NewBootstrapService constructs a BootstrapService.
func NewBootstrapService(repo bootstrapUserRepository, logger *zap.Logger, email, password string) *BootstrapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BootstrapService{repo: repo, logger: logger, email: email, password: password}
}

// EnsureSuperAdmin creates the super admin user if absent, otherwise
// resets its password and confirms the email so a stuck account can
// always be recovered.
func (s *BootstrapService) EnsureSuperAdmin(ctx context.Context) (*BootstrapResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user, err := s.repo.FindByEmail(ctx, s.email)
	switch {
	case err == nil:
		if err := s.repo.UpdatePassword(ctx, user.ID, string(hash), time.Now().UTC()); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset password")
		}
	case errors.Is(err, sql.ErrNoRows):
		user = &models.User{
			Email:          s.email,
			PasswordHash:   string(hash),
			FullName:       "Super Admin",
			EmailConfirmed: true,
			Active:         true,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create super admin user")
		}
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up super admin")
	}

	created := false
	if _, err := s.repo.FindRoleBinding(ctx, user.ID, models.RoleSuperAdmin); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up role binding")
		}
		if err := s.repo.CreateRoleBinding(ctx, &models.RoleBinding{
			UserID: user.ID,
			Role:   models.RoleSuperAdmin,
		}); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign super admin role")
		}
		created = true
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &user.ID,
		Action:     models.AuditActionBootstrap,
		Resource:   "users",
		ResourceID: &user.ID,
		NewValues:  []byte(`{"role":"super_admin"}`),
	}); err != nil {
		s.logger.Warn("failed to record bootstrap audit log", zap.Error(err))
	}

	s.logger.Info("super admin bootstrap completed",
		zap.String("email", s.email),
		zap.Bool("role_created", created))

	return &BootstrapResult{Created: created, Email: s.email, Password: s.password}, nil
}
