package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edusetu/edusetu-api/internal/models"
)

// UserRepository provides database access for identities, role bindings,
// refresh token sessions and audit records.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, email_confirmed, active, last_login, created_at, updated_at FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, email_confirmed, active, last_login, created_at, updated_at FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	const query = `INSERT INTO users (id, email, password_hash, full_name, email_confirmed, active, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :full_name, :email_confirmed, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash and marks the email
// confirmed. Used by both the change-password flow and the bootstrap reset.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, email_confirmed = TRUE, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Delete removes a user and, through cascade, their role bindings and
// refresh tokens.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// FindRoleBinding returns the binding for a user and role, if any.
func (r *UserRepository) FindRoleBinding(ctx context.Context, userID string, role models.UserRole) (*models.RoleBinding, error) {
	const query = `SELECT id, user_id, role, school_id, created_at FROM user_roles WHERE user_id = $1 AND role = $2 LIMIT 1`
	var binding models.RoleBinding
	if err := r.db.GetContext(ctx, &binding, query, userID, role); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find role binding: %w", err)
	}
	return &binding, nil
}

// FindRoleByUser returns the first role binding attached to a user.
func (r *UserRepository) FindRoleByUser(ctx context.Context, userID string) (*models.RoleBinding, error) {
	const query = `SELECT id, user_id, role, school_id, created_at FROM user_roles WHERE user_id = $1 ORDER BY created_at LIMIT 1`
	var binding models.RoleBinding
	if err := r.db.GetContext(ctx, &binding, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find role by user: %w", err)
	}
	return &binding, nil
}

// CreateRoleBinding inserts a role row for a user.
func (r *UserRepository) CreateRoleBinding(ctx context.Context, binding *models.RoleBinding) error {
	if binding.ID == "" {
		binding.ID = uuid.NewString()
	}
	if binding.CreatedAt.IsZero() {
		binding.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO user_roles (id, user_id, role, school_id, created_at)
        VALUES (:id, :user_id, :role, :school_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, binding); err != nil {
		return fmt.Errorf("create role binding: %w", err)
	}
	return nil
}

// CreateUserWithRole inserts a user and its role binding in one transaction.
// Used by school-admin provisioning so a failed role write never leaves an
// orphaned identity behind.
func (r *UserRepository) CreateUserWithRole(ctx context.Context, user *models.User, binding *models.RoleBinding) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	binding.UserID = user.ID
	if binding.ID == "" {
		binding.ID = uuid.NewString()
	}
	if binding.CreatedAt.IsZero() {
		binding.CreatedAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (id, email, password_hash, full_name, email_confirmed, active, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :full_name, :email_confirmed, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	const roleQuery = `INSERT INTO user_roles (id, user_id, role, school_id, created_at)
        VALUES (:id, :user_id, :role, :school_id, :created_at)`
	if _, err := tx.NamedExecContext(ctx, roleQuery, binding); err != nil {
		return fmt.Errorf("create role binding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListSchoolAdmins returns school_admin bindings joined with user and
// school details, newest first.
func (r *UserRepository) ListSchoolAdmins(ctx context.Context) ([]models.SchoolAdminDetail, error) {
	const query = `SELECT ur.id, ur.user_id, ur.role, ur.school_id, ur.created_at,
        u.email, u.full_name, s.name AS school_name
        FROM user_roles ur
        JOIN users u ON u.id = ur.user_id
        LEFT JOIN schools s ON s.id = ur.school_id
        WHERE ur.role = $1
        ORDER BY ur.created_at DESC`
	var admins []models.SchoolAdminDetail
	if err := r.db.SelectContext(ctx, &admins, query, models.RoleSchoolAdmin); err != nil {
		return nil, fmt.Errorf("list school admins: %w", err)
	}
	return admins, nil
}

// FindSchoolAdmin returns a single school_admin binding with details.
func (r *UserRepository) FindSchoolAdmin(ctx context.Context, bindingID string) (*models.SchoolAdminDetail, error) {
	const query = `SELECT ur.id, ur.user_id, ur.role, ur.school_id, ur.created_at,
        u.email, u.full_name, s.name AS school_name
        FROM user_roles ur
        JOIN users u ON u.id = ur.user_id
        LEFT JOIN schools s ON s.id = ur.school_id
        WHERE ur.id = $1 AND ur.role = $2`
	var admin models.SchoolAdminDetail
	if err := r.db.GetContext(ctx, &admin, query, bindingID, models.RoleSchoolAdmin); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find school admin: %w", err)
	}
	return &admin, nil
}

// CreateRefreshToken persists a refresh token session.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const query = `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked, ip_address, user_agent)
        VALUES (:id, :user_id, :token, :expires_at, :created_at, :revoked, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken loads a refresh token by its value.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var stored models.RefreshToken
	if err := r.db.GetContext(ctx, &stored, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &stored, nil
}

// RevokeRefreshToken marks a single token revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes every live session of a user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE user_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}

// CreateAuditLog inserts an audit trail record.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at)
        VALUES (:id, :user_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
