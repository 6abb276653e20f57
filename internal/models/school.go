package models

import "time"

// School is a tenant institution managed through the super-admin console.
type School struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Address      *string   `db:"address" json:"address,omitempty"`
	ContactEmail *string   `db:"contact_email" json:"contact_email,omitempty"`
	ContactPhone *string   `db:"contact_phone" json:"contact_phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolRequest creates or updates a school record.
type SchoolRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=150"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=300"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone,omitempty" validate:"omitempty,max=20"`
}

// SchoolAdminCreateRequest provisions a school_admin account bound to a
// school.
type SchoolAdminCreateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	SchoolID string `json:"school_id" validate:"required,uuid"`
}
