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

// VideoRepository manages persistence for learning videos.
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository constructs a VideoRepository.
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// List returns all videos, newest first.
func (r *VideoRepository) List(ctx context.Context) ([]models.LearningVideo, error) {
	const query = `SELECT id, title, description, video_url, thumbnail_url, category, age_group, created_at, updated_at
        FROM learning_videos ORDER BY created_at DESC`
	var videos []models.LearningVideo
	if err := r.db.SelectContext(ctx, &videos, query); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// FindByID fetches a video by ID.
func (r *VideoRepository) FindByID(ctx context.Context, id string) (*models.LearningVideo, error) {
	const query = `SELECT id, title, description, video_url, thumbnail_url, category, age_group, created_at, updated_at
        FROM learning_videos WHERE id = $1`
	var video models.LearningVideo
	if err := r.db.GetContext(ctx, &video, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	return &video, nil
}

// Create inserts a new video.
func (r *VideoRepository) Create(ctx context.Context, video *models.LearningVideo) error {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now
	const query = `INSERT INTO learning_videos (id, title, description, video_url, thumbnail_url, category, age_group, created_at, updated_at)
        VALUES (:id, :title, :description, :video_url, :thumbnail_url, :category, :age_group, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, video); err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

// Update modifies an existing video.
func (r *VideoRepository) Update(ctx context.Context, video *models.LearningVideo) error {
	video.UpdatedAt = time.Now().UTC()
	const query = `UPDATE learning_videos SET title = :title, description = :description, video_url = :video_url,
        thumbnail_url = :thumbnail_url, category = :category, age_group = :age_group, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, video); err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return nil
}

// Delete removes a video.
func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM learning_videos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}
