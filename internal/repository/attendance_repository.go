package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edusetu/edusetu-api/internal/models"
)

// AttendanceRepository manages daily attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Roster returns every active student of a school with their mark for the
// given day. Students not yet marked carry a NULL status.
func (r *AttendanceRepository) Roster(ctx context.Context, schoolID string, date time.Time) ([]models.AttendanceEntry, error) {
	const query = `SELECT s.id AS student_id, s.full_name, s.roll_no, s.image, a.status
        FROM students s
        LEFT JOIN attendance_records a ON a.student_id = s.id AND a.date = $2
        WHERE s.school_id = $1 AND s.active = TRUE
        ORDER BY s.roll_no`
	var entries []models.AttendanceEntry
	if err := r.db.SelectContext(ctx, &entries, query, schoolID, date); err != nil {
		return nil, fmt.Errorf("attendance roster: %w", err)
	}
	return entries, nil
}

// Mark upserts one student's status for a day.
func (r *AttendanceRepository) Mark(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO attendance_records (id, school_id, student_id, date, status, created_at, updated_at)
        VALUES (:id, :school_id, :student_id, :date, :status, :created_at, :updated_at)
        ON CONFLICT (student_id, date) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("mark attendance: %w", err)
	}
	return nil
}
