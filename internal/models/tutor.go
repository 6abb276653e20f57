package models

import "time"

// TutorStatus tracks a tutor application through the review workflow.
type TutorStatus string

const (
	TutorStatusPending  TutorStatus = "pending"
	TutorStatusApproved TutorStatus = "approved"
	TutorStatusRejected TutorStatus = "rejected"
)

// TutorPlan is the subscription plan a tutor signed up for.
type TutorPlan string

const (
	TutorPlanMonthly  TutorPlan = "Monthly"
	TutorPlanYearly   TutorPlan = "Yearly"
	TutorPlanLifetime TutorPlan = "Lifetime"
)

// Tutor represents a marketplace tutor profile. A profile enters the
// platform in pending state and is only publicly listed once approved
// and active.
type Tutor struct {
	ID         string      `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Email      string      `db:"email" json:"email"`
	Phone      string      `db:"phone" json:"phone"`
	Subject    string      `db:"subject" json:"subject"`
	Classes    string      `db:"classes" json:"classes"`
	Location   string      `db:"location" json:"location"`
	Rating     float64     `db:"rating" json:"rating"`
	Reviews    int         `db:"reviews" json:"reviews"`
	Experience string      `db:"experience" json:"experience"`
	Price      string      `db:"price" json:"price"`
	Bio        *string     `db:"bio" json:"bio,omitempty"`
	Image      *string     `db:"image" json:"image,omitempty"`
	Plan       TutorPlan   `db:"plan" json:"plan"`
	Status     TutorStatus `db:"status" json:"status"`
	IsActive   bool        `db:"is_active" json:"is_active"`
	Verified   bool        `db:"verified" json:"verified"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// TutorFilter narrows tutor listings. Matching happens in memory over
// the full fetched list.
type TutorFilter struct {
	Search   string
	Subject  string
	Location string
	Status   string
}

// TutorApplicationRequest is the public marketplace signup payload.
type TutorApplicationRequest struct {
	Name       string    `json:"name" validate:"required,min=2,max=100"`
	Email      string    `json:"email" validate:"required,email,max=255"`
	Phone      string    `json:"phone" validate:"required,min=7,max=20"`
	Subject    string    `json:"subject" validate:"required,max=100"`
	Classes    string    `json:"classes" validate:"required,max=100"`
	Location   string    `json:"location" validate:"required,max=120"`
	Experience string    `json:"experience" validate:"required,max=60"`
	Price      string    `json:"price" validate:"required,max=60"`
	Bio        *string   `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Image      *string   `json:"image,omitempty" validate:"omitempty,url"`
	Plan       TutorPlan `json:"plan" validate:"required,oneof=Monthly Yearly Lifetime"`
}

// TutorUpdateRequest edits descriptive profile fields. Workflow flags
// are not part of this payload.
type TutorUpdateRequest struct {
	Name       string    `json:"name" validate:"required,min=2,max=100"`
	Email      string    `json:"email" validate:"required,email,max=255"`
	Phone      string    `json:"phone" validate:"required,min=7,max=20"`
	Subject    string    `json:"subject" validate:"required,max=100"`
	Classes    string    `json:"classes" validate:"required,max=100"`
	Location   string    `json:"location" validate:"required,max=120"`
	Rating     float64   `json:"rating" validate:"gte=0,lte=5"`
	Reviews    int       `json:"reviews" validate:"gte=0"`
	Experience string    `json:"experience" validate:"required,max=60"`
	Price      string    `json:"price" validate:"required,max=60"`
	Bio        *string   `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Image      *string   `json:"image,omitempty" validate:"omitempty,url"`
	Plan       TutorPlan `json:"plan" validate:"required,oneof=Monthly Yearly Lifetime"`
}
