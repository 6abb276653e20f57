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

// FeeRepository manages fee records and their line items.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs a FeeRepository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

// ListBySchool returns a school's fee records joined with student details,
// newest first. Line items are loaded in one follow-up query and stitched
// in memory.
func (r *FeeRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.FeeDetail, error) {
	const query = `SELECT f.id, f.school_id, f.student_id, f.total_amount, f.paid_amount, f.due_date, f.status, f.created_at, f.updated_at,
        s.full_name AS student_name, s.roll_no, s.class, s.section
        FROM fee_records f
        JOIN students s ON s.id = f.student_id
        WHERE f.school_id = $1
        ORDER BY f.created_at DESC`
	var details []models.FeeDetail
	if err := r.db.SelectContext(ctx, &details, query, schoolID); err != nil {
		return nil, fmt.Errorf("list fee records: %w", err)
	}
	if len(details) == 0 {
		return details, nil
	}

	const itemQuery = `SELECT i.id, i.fee_record_id, i.fee_type, i.amount, i.paid
        FROM fee_items i
        JOIN fee_records f ON f.id = i.fee_record_id
        WHERE f.school_id = $1`
	var items []models.FeeItem
	if err := r.db.SelectContext(ctx, &items, itemQuery, schoolID); err != nil {
		return nil, fmt.Errorf("list fee items: %w", err)
	}

	byRecord := make(map[string][]models.FeeItem, len(details))
	for _, item := range items {
		byRecord[item.FeeRecordID] = append(byRecord[item.FeeRecordID], item)
	}
	for i := range details {
		details[i].Items = byRecord[details[i].ID]
	}
	return details, nil
}

// FindByID fetches one fee record with its items.
func (r *FeeRepository) FindByID(ctx context.Context, id string) (*models.FeeDetail, error) {
	const query = `SELECT f.id, f.school_id, f.student_id, f.total_amount, f.paid_amount, f.due_date, f.status, f.created_at, f.updated_at,
        s.full_name AS student_name, s.roll_no, s.class, s.section
        FROM fee_records f
        JOIN students s ON s.id = f.student_id
        WHERE f.id = $1`
	var detail models.FeeDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find fee record: %w", err)
	}

	const itemQuery = `SELECT id, fee_record_id, fee_type, amount, paid FROM fee_items WHERE fee_record_id = $1`
	if err := r.db.SelectContext(ctx, &detail.Items, itemQuery, id); err != nil {
		return nil, fmt.Errorf("load fee items: %w", err)
	}
	return &detail, nil
}

// Create inserts a fee record with its items in one transaction.
func (r *FeeRepository) Create(ctx context.Context, record *models.FeeRecord, items []models.FeeItem) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO fee_records (id, school_id, student_id, total_amount, paid_amount, due_date, status, created_at, updated_at)
        VALUES (:id, :school_id, :student_id, :total_amount, :paid_amount, :due_date, :status, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create fee record: %w", err)
	}

	if err := insertFeeItems(ctx, tx, record.ID, items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Update rewrites a fee record and replaces its items in one transaction.
func (r *FeeRepository) Update(ctx context.Context, record *models.FeeRecord, items []models.FeeItem) error {
	record.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `UPDATE fee_records SET total_amount = :total_amount, paid_amount = :paid_amount, due_date = :due_date,
        status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update fee record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM fee_items WHERE fee_record_id = $1`, record.ID); err != nil {
		return fmt.Errorf("clear fee items: %w", err)
	}
	if err := insertFeeItems(ctx, tx, record.ID, items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Delete removes a fee record; items cascade.
func (r *FeeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fee_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete fee record: %w", err)
	}
	return nil
}

func insertFeeItems(ctx context.Context, tx *sqlx.Tx, recordID string, items []models.FeeItem) error {
	const query = `INSERT INTO fee_items (id, fee_record_id, fee_type, amount, paid)
        VALUES (:id, :fee_record_id, :fee_type, :amount, :paid)`
	for i := range items {
		items[i].FeeRecordID = recordID
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, query, items[i]); err != nil {
			return fmt.Errorf("create fee item: %w", err)
		}
	}
	return nil
}
