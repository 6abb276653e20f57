package models

import "time"

// UserRole represents the administrative roles recognised by the platform.
type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"
	RoleSchoolAdmin UserRole = "school_admin"
)

// User represents an authenticated identity stored in the users table.
type User struct {
	ID             string     `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	FullName       string     `db:"full_name" json:"full_name"`
	EmailConfirmed bool       `db:"email_confirmed" json:"email_confirmed"`
	Active         bool       `db:"active" json:"active"`
	LastLogin      *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// RoleBinding associates a user with a role, optionally scoped to a school.
type RoleBinding struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      UserRole  `db:"role" json:"role"`
	SchoolID  *string   `db:"school_id" json:"school_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SchoolAdminDetail joins a school_admin role binding with its user and school.
type SchoolAdminDetail struct {
	RoleBinding
	Email      string  `db:"email" json:"email"`
	FullName   string  `db:"full_name" json:"full_name"`
	SchoolName *string `db:"school_name" json:"school_name,omitempty"`
}
