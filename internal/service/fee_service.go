package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
	"github.com/edusetu/edusetu-api/pkg/export"
)

type feeRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.FeeDetail, error)
	FindByID(ctx context.Context, id string) (*models.FeeDetail, error)
	Create(ctx context.Context, record *models.FeeRecord, items []models.FeeItem) error
	Update(ctx context.Context, record *models.FeeRecord, items []models.FeeItem) error
	Delete(ctx context.Context, id string) error
}

type feeStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// FeeService manages fee records for a school. Totals and status are
// always derived from the line items, never trusted from the client.
type FeeService struct {
	repo      feeRepository
	students  feeStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeeService constructs a FeeService.
func NewFeeService(repo feeRepository, students feeStudentRepository, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FeeService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns a school's fee records matching the filter.
func (s *FeeService) List(ctx context.Context, schoolID string, filter models.FeeFilter) ([]models.FeeDetail, error) {
	records, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fee records")
	}
	return filterFees(records, filter), nil
}

// Get returns one fee record belonging to the school.
func (s *FeeService) Get(ctx context.Context, schoolID, id string) (*models.FeeDetail, error) {
	return s.refetch(ctx, schoolID, id)
}

// Create adds a fee record for a student of the school.
func (s *FeeService) Create(ctx context.Context, schoolID string, req models.FeeRequest) (*models.FeeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.SchoolID != schoolID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	record := &models.FeeRecord{
		SchoolID:  schoolID,
		StudentID: req.StudentID,
		DueDate:   req.DueDate,
	}
	items := buildFeeItems(req.Items)
	applyFeeTotals(record, items)

	if err := s.repo.Create(ctx, record, items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fee record")
	}

	s.logger.Info("fee record created",
		zap.String("fee_id", record.ID),
		zap.String("student_id", req.StudentID),
		zap.Int64("total", record.TotalAmount))

	return s.refetch(ctx, schoolID, record.ID)
}

// Update rewrites a fee record's due date and items.
func (s *FeeService) Update(ctx context.Context, schoolID, id string, req models.FeeRequest) (*models.FeeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}

	detail, err := s.refetch(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}

	record := detail.FeeRecord
	record.DueDate = req.DueDate
	items := buildFeeItems(req.Items)
	applyFeeTotals(&record, items)

	if err := s.repo.Update(ctx, &record, items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update fee record")
	}
	return s.refetch(ctx, schoolID, id)
}

// Delete removes a fee record.
func (s *FeeService) Delete(ctx context.Context, schoolID, id string) error {
	if _, err := s.refetch(ctx, schoolID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete fee record")
	}
	return nil
}

// Summary aggregates collection totals over the filtered records.
func (s *FeeService) Summary(ctx context.Context, schoolID string, filter models.FeeFilter) (*models.FeeSummary, error) {
	records, err := s.List(ctx, schoolID, filter)
	if err != nil {
		return nil, err
	}
	summary := &models.FeeSummary{}
	for _, rec := range records {
		summary.TotalBilled += rec.TotalAmount
		summary.TotalCollected += rec.PaidAmount
		switch rec.Status {
		case models.FeeStatusPaid:
			summary.PaidCount++
		case models.FeeStatusPartial:
			summary.PartialCount++
		default:
			summary.PendingCount++
		}
	}
	summary.TotalOutstanding = summary.TotalBilled - summary.TotalCollected
	return summary, nil
}

// ExportCSV renders the filtered fee ledger as CSV.
func (s *FeeService) ExportCSV(ctx context.Context, schoolID string, filter models.FeeFilter) ([]byte, error) {
	dataset, err := s.buildDataset(ctx, schoolID, filter)
	if err != nil {
		return nil, err
	}
	return export.NewCSVExporter().Render(*dataset)
}

// ExportPDF renders the filtered fee ledger as a PDF report.
func (s *FeeService) ExportPDF(ctx context.Context, schoolID string, filter models.FeeFilter) ([]byte, error) {
	dataset, err := s.buildDataset(ctx, schoolID, filter)
	if err != nil {
		return nil, err
	}
	return export.NewPDFExporter().Render(*dataset, "Fee Collection Report")
}

func (s *FeeService) buildDataset(ctx context.Context, schoolID string, filter models.FeeFilter) (*export.Dataset, error) {
	records, err := s.List(ctx, schoolID, filter)
	if err != nil {
		return nil, err
	}

	var billed, collected int64
	dataset := &export.Dataset{
		Headers: []string{"Roll No", "Student", "Class", "Total", "Paid", "Outstanding", "Status"},
	}
	for _, rec := range records {
		billed += rec.TotalAmount
		collected += rec.PaidAmount
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Roll No":     rec.RollNo,
			"Student":     rec.StudentName,
			"Class":       fmt.Sprintf("%s-%s", rec.Class, rec.Section),
			"Total":       fmt.Sprintf("%d", rec.TotalAmount),
			"Paid":        fmt.Sprintf("%d", rec.PaidAmount),
			"Outstanding": fmt.Sprintf("%d", rec.TotalAmount-rec.PaidAmount),
			"Status":      string(rec.Status),
		})
	}
	dataset.Summary = map[string]string{
		"Student":     "Total",
		"Total":       fmt.Sprintf("%d", billed),
		"Paid":        fmt.Sprintf("%d", collected),
		"Outstanding": fmt.Sprintf("%d", billed-collected),
	}
	return dataset, nil
}

func (s *FeeService) refetch(ctx context.Context, schoolID, id string) (*models.FeeDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee record")
	}
	if detail.SchoolID != schoolID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "fee record not found")
	}
	return detail, nil
}

func buildFeeItems(reqs []models.FeeItemRequest) []models.FeeItem {
	items := make([]models.FeeItem, 0, len(reqs))
	for _, item := range reqs {
		items = append(items, models.FeeItem{
			FeeType: item.FeeType,
			Amount:  item.Amount,
			Paid:    item.Paid,
		})
	}
	return items
}

// applyFeeTotals derives total, paid and status from the items: paid when
// everything is collected, partial when something is, pending otherwise.
func applyFeeTotals(record *models.FeeRecord, items []models.FeeItem) {
	var total, paid int64
	for _, item := range items {
		total += item.Amount
		if item.Paid {
			paid += item.Amount
		}
	}
	record.TotalAmount = total
	record.PaidAmount = paid
	switch {
	case total > 0 && paid >= total:
		record.Status = models.FeeStatusPaid
	case paid > 0:
		record.Status = models.FeeStatusPartial
	default:
		record.Status = models.FeeStatusPending
	}
}

func filterFees(records []models.FeeDetail, filter models.FeeFilter) []models.FeeDetail {
	result := make([]models.FeeDetail, 0, len(records))
	for _, rec := range records {
		if !anyContainsFold(filter.Search, rec.StudentName, rec.RollNo) {
			continue
		}
		if filter.Status != "" && string(rec.Status) != filter.Status {
			continue
		}
		if filter.Class != "" && rec.Class != filter.Class {
			continue
		}
		result = append(result, rec)
	}
	return result
}
