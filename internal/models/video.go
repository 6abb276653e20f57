package models

import "time"

// Video categories and age groups offered by the learning library.
var (
	VideoCategories = []string{"General", "Math", "Science", "Language", "Art", "Music", "Social Skills"}
	VideoAgeGroups  = []string{"All Ages", "2-4 Years", "5-7 Years", "8-10 Years", "11-13 Years", "14+ Years"}
)

// LearningVideo is an educational video curated by the super admin.
type LearningVideo struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  *string   `db:"description" json:"description,omitempty"`
	VideoURL     string    `db:"video_url" json:"video_url"`
	ThumbnailURL *string   `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	Category     string    `db:"category" json:"category"`
	AgeGroup     string    `db:"age_group" json:"age_group"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// VideoFilter narrows video listings.
type VideoFilter struct {
	Search   string
	Category string
}

// VideoRequest creates or updates a learning video.
type VideoRequest struct {
	Title        string  `json:"title" validate:"required,min=2,max=150"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	VideoURL     string  `json:"video_url" validate:"required,url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	Category     string  `json:"category" validate:"required"`
	AgeGroup     string  `json:"age_group" validate:"required"`
}
