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

const tutorColumns = `id, name, email, phone, subject, classes, location, rating, reviews, experience, price, bio, image, plan, status, is_active, verified, created_at, updated_at`

// TutorRepository manages persistence for tutor profiles.
type TutorRepository struct {
	db *sqlx.DB
}

// NewTutorRepository constructs a TutorRepository.
func NewTutorRepository(db *sqlx.DB) *TutorRepository {
	return &TutorRepository{db: db}
}

// List returns all tutors, newest first. Filtering happens in the service
// over the full list.
func (r *TutorRepository) List(ctx context.Context) ([]models.Tutor, error) {
	query := fmt.Sprintf(`SELECT %s FROM tutors ORDER BY created_at DESC`, tutorColumns)
	var tutors []models.Tutor
	if err := r.db.SelectContext(ctx, &tutors, query); err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	return tutors, nil
}

// ListActive returns publicly visible tutors, newest first.
func (r *TutorRepository) ListActive(ctx context.Context) ([]models.Tutor, error) {
	query := fmt.Sprintf(`SELECT %s FROM tutors WHERE is_active = TRUE ORDER BY created_at DESC`, tutorColumns)
	var tutors []models.Tutor
	if err := r.db.SelectContext(ctx, &tutors, query); err != nil {
		return nil, fmt.Errorf("list active tutors: %w", err)
	}
	return tutors, nil
}

// FindByID fetches a tutor by ID.
func (r *TutorRepository) FindByID(ctx context.Context, id string) (*models.Tutor, error) {
	query := fmt.Sprintf(`SELECT %s FROM tutors WHERE id = $1`, tutorColumns)
	var tutor models.Tutor
	if err := r.db.GetContext(ctx, &tutor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find tutor: %w", err)
	}
	return &tutor, nil
}

// Create inserts a new tutor record.
func (r *TutorRepository) Create(ctx context.Context, tutor *models.Tutor) error {
	if tutor.ID == "" {
		tutor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if tutor.CreatedAt.IsZero() {
		tutor.CreatedAt = now
	}
	tutor.UpdatedAt = now
	const query = `INSERT INTO tutors (id, name, email, phone, subject, classes, location, rating, reviews, experience, price, bio, image, plan, status, is_active, verified, created_at, updated_at)
        VALUES (:id, :name, :email, :phone, :subject, :classes, :location, :rating, :reviews, :experience, :price, :bio, :image, :plan, :status, :is_active, :verified, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tutor); err != nil {
		return fmt.Errorf("create tutor: %w", err)
	}
	return nil
}

// UpdateProfile modifies descriptive fields only. Workflow flags are
// changed exclusively through UpdateStatus and SetActive.
func (r *TutorRepository) UpdateProfile(ctx context.Context, tutor *models.Tutor) error {
	tutor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE tutors SET name = :name, email = :email, phone = :phone, subject = :subject, classes = :classes,
        location = :location, rating = :rating, reviews = :reviews, experience = :experience, price = :price,
        bio = :bio, image = :image, plan = :plan, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, tutor); err != nil {
		return fmt.Errorf("update tutor: %w", err)
	}
	return nil
}

// UpdateStatus applies a lifecycle transition, setting the visibility and
// verification flags that accompany it.
func (r *TutorRepository) UpdateStatus(ctx context.Context, id string, status models.TutorStatus, isActive, verified bool) error {
	const query = `UPDATE tutors SET status = $2, is_active = $3, verified = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, isActive, verified, time.Now().UTC()); err != nil {
		return fmt.Errorf("update tutor status: %w", err)
	}
	return nil
}

// SetActive flips the public visibility flag without touching status.
func (r *TutorRepository) SetActive(ctx context.Context, id string, isActive bool) error {
	const query = `UPDATE tutors SET is_active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, isActive, time.Now().UTC()); err != nil {
		return fmt.Errorf("set tutor active: %w", err)
	}
	return nil
}

// Delete removes a tutor unconditionally.
func (r *TutorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tutors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete tutor: %w", err)
	}
	return nil
}
