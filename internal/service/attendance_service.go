package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
)

type attendanceRepository interface {
	Roster(ctx context.Context, schoolID string, date time.Time) ([]models.AttendanceEntry, error)
	Mark(ctx context.Context, record *models.AttendanceRecord) error
}

type attendanceStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// AttendanceRoster is a day's roster with its per-status counts.
type AttendanceRoster struct {
	Date    time.Time                `json:"date"`
	Entries []models.AttendanceEntry `json:"entries"`
	Summary models.AttendanceSummary `json:"summary"`
}

// AttendanceMarkRequest records one student's status for a day.
type AttendanceMarkRequest struct {
	StudentID string                  `json:"student_id" validate:"required,uuid"`
	Date      string                  `json:"date" validate:"required,datetime=2006-01-02"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=present absent late"`
}

// AttendanceService manages daily attendance for a school.
type AttendanceService struct {
	repo      attendanceRepository
	students  attendanceStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, students attendanceStudentRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{repo: repo, students: students, validator: validate, logger: logger}
}

// Roster returns the school's active students with their marks for the
// given day plus status counts. Unmarked students carry a null status.
func (s *AttendanceService) Roster(ctx context.Context, schoolID string, date time.Time) (*AttendanceRoster, error) {
	date = date.Truncate(24 * time.Hour)
	entries, err := s.repo.Roster(ctx, schoolID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance roster")
	}

	var summary models.AttendanceSummary
	for _, entry := range entries {
		switch {
		case entry.Status == nil:
			summary.Unmarked++
		case *entry.Status == models.AttendancePresent:
			summary.Present++
		case *entry.Status == models.AttendanceAbsent:
			summary.Absent++
		case *entry.Status == models.AttendanceLate:
			summary.Late++
		}
	}

	return &AttendanceRoster{Date: date, Entries: entries, Summary: summary}, nil
}

// Mark sets or replaces a student's mark for a day. Re-marking the same
// day overwrites the previous status.
func (s *AttendanceService) Mark(ctx context.Context, schoolID string, req AttendanceMarkRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.SchoolID != schoolID {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	status := req.Status
	record := &models.AttendanceRecord{
		SchoolID:  schoolID,
		StudentID: req.StudentID,
		Date:      date,
		Status:    &status,
	}
	if err := s.repo.Mark(ctx, record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark attendance")
	}

	s.logger.Debug("attendance marked",
		zap.String("student_id", req.StudentID),
		zap.String("date", req.Date),
		zap.String("status", string(status)))
	return nil
}
