package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
)

type schoolAdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUserWithRole(ctx context.Context, user *models.User, binding *models.RoleBinding) error
	ListSchoolAdmins(ctx context.Context) ([]models.SchoolAdminDetail, error)
	FindSchoolAdmin(ctx context.Context, bindingID string) (*models.SchoolAdminDetail, error)
	Delete(ctx context.Context, id string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type schoolAdminSchoolRepository interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

// SchoolAdminService provisions and removes school administrator
// accounts from the super-admin console.
type SchoolAdminService struct {
	repo      schoolAdminRepository
	schools   schoolAdminSchoolRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolAdminService constructs a SchoolAdminService.
func NewSchoolAdminService(repo schoolAdminRepository, schools schoolAdminSchoolRepository, validate *validator.Validate, logger *zap.Logger) *SchoolAdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SchoolAdminService{repo: repo, schools: schools, validator: validate, logger: logger}
}

// List returns all school admin accounts with their school names.
func (s *SchoolAdminService) List(ctx context.Context) ([]models.SchoolAdminDetail, error) {
	admins, err := s.repo.ListSchoolAdmins(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list school admins")
	}
	return admins, nil
}

// Create provisions a school admin: the user, its password and the role
// binding to the target school, in one transaction. An email that is
// already registered is reported as a conflict so the console can tell
// the operator to pick another.
func (s *SchoolAdminService) Create(ctx context.Context, req models.SchoolAdminCreateRequest, actorID string) (*models.SchoolAdminDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school admin payload")
	}

	if _, err := s.schools.FindByID(ctx, req.SchoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrAlreadyRegistered, fmt.Sprintf("email %s is already registered", req.Email))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:          req.Email,
		PasswordHash:   string(hash),
		FullName:       req.FullName,
		EmailConfirmed: true,
		Active:         true,
	}
	binding := &models.RoleBinding{
		Role:     models.RoleSchoolAdmin,
		SchoolID: &req.SchoolID,
	}

	if err := s.repo.CreateUserWithRole(ctx, user, binding); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create school admin")
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionAdminCreate,
		Resource:   "user_roles",
		ResourceID: &binding.ID,
		NewValues:  []byte(fmt.Sprintf(`{"email":%q,"school_id":%q}`, req.Email, req.SchoolID)),
	}); err != nil {
		s.logger.Warn("failed to record school admin audit log", zap.Error(err))
	}

	s.logger.Info("school admin created",
		zap.String("user_id", user.ID),
		zap.String("school_id", req.SchoolID))

	return s.refetch(ctx, binding.ID)
}

// Get returns one school admin binding with details.
func (s *SchoolAdminService) Get(ctx context.Context, bindingID string) (*models.SchoolAdminDetail, error) {
	return s.refetch(ctx, bindingID)
}

// Delete removes a school admin account entirely: deleting the user
// cascades to the binding and any live sessions.
func (s *SchoolAdminService) Delete(ctx context.Context, bindingID string, actorID string) error {
	admin, err := s.refetch(ctx, bindingID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, admin.UserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete school admin")
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionAdminDelete,
		Resource:   "user_roles",
		ResourceID: &bindingID,
		OldValues:  []byte(fmt.Sprintf(`{"email":%q}`, admin.Email)),
	}); err != nil {
		s.logger.Warn("failed to record school admin audit log", zap.Error(err))
	}

	return nil
}

func (s *SchoolAdminService) refetch(ctx context.Context, bindingID string) (*models.SchoolAdminDetail, error) {
	admin, err := s.repo.FindSchoolAdmin(ctx, bindingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school admin")
	}
	return admin, nil
}
