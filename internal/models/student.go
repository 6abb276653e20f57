package models

import "time"

// Student represents a learner enrolled at a school.
type Student struct {
	ID            string    `db:"id" json:"id"`
	SchoolID      string    `db:"school_id" json:"school_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	RollNo        string    `db:"roll_no" json:"roll_no"`
	Class         string    `db:"class" json:"class"`
	Section       string    `db:"section" json:"section"`
	GuardianPhone string    `db:"guardian_phone" json:"guardian_phone"`
	Image         *string   `db:"image" json:"image,omitempty"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter narrows a school's student roster.
type StudentFilter struct {
	Search  string
	Class   string
	Section string
}

// StudentRequest creates or updates a student record. Roll numbers are
// unique within a school.
type StudentRequest struct {
	FullName      string  `json:"full_name" validate:"required,min=2,max=100"`
	RollNo        string  `json:"roll_no" validate:"required,max=30"`
	Class         string  `json:"class" validate:"required,max=30"`
	Section       string  `json:"section" validate:"required,max=10"`
	GuardianPhone string  `json:"guardian_phone" validate:"required,min=7,max=20"`
	Image         *string `json:"image,omitempty" validate:"omitempty,url"`
	Active        bool    `json:"active"`
}
