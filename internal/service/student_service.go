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

type studentRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByRollNo(ctx context.Context, schoolID, rollNo, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentService manages a school's student roster. Every operation is
// scoped to the caller's school: records from other tenants are treated
// as not found.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns the school's students matching the filter.
func (s *StudentService) List(ctx context.Context, schoolID string, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return filterStudents(students, filter), nil
}

// Get returns a single student belonging to the school.
func (s *StudentService) Get(ctx context.Context, schoolID, id string) (*models.Student, error) {
	return s.refetch(ctx, schoolID, id)
}

// Create enrolls a new student. Roll numbers must be unique within the
// school.
func (s *StudentService) Create(ctx context.Context, schoolID string, req models.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	taken, err := s.repo.ExistsByRollNo(ctx, schoolID, req.RollNo, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roll number")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("roll number %s is already in use", req.RollNo))
	}

	student := &models.Student{
		SchoolID:      schoolID,
		FullName:      req.FullName,
		RollNo:        req.RollNo,
		Class:         req.Class,
		Section:       req.Section,
		GuardianPhone: req.GuardianPhone,
		Image:         req.Image,
		Active:        req.Active,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student enrolled",
		zap.String("student_id", student.ID),
		zap.String("school_id", schoolID))

	return s.refetch(ctx, schoolID, student.ID)
}

// Update modifies a student record.
func (s *StudentService) Update(ctx context.Context, schoolID, id string, req models.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.refetch(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}

	if req.RollNo != student.RollNo {
		taken, err := s.repo.ExistsByRollNo(ctx, schoolID, req.RollNo, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roll number")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("roll number %s is already in use", req.RollNo))
		}
	}

	student.FullName = req.FullName
	student.RollNo = req.RollNo
	student.Class = req.Class
	student.Section = req.Section
	student.GuardianPhone = req.GuardianPhone
	student.Image = req.Image
	student.Active = req.Active

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return s.refetch(ctx, schoolID, id)
}

// Delete removes a student; fee and attendance rows cascade.
func (s *StudentService) Delete(ctx context.Context, schoolID, id string) error {
	if _, err := s.refetch(ctx, schoolID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// ExportCSV renders the filtered roster as a CSV dataset.
func (s *StudentService) ExportCSV(ctx context.Context, schoolID string, filter models.StudentFilter) ([]byte, error) {
	students, err := s.List(ctx, schoolID, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Roll No", "Name", "Class", "Section", "Guardian Phone", "Status"},
		Summary: map[string]string{"Roll No": "Total", "Name": fmt.Sprintf("%d students", len(students))},
	}
	for _, st := range students {
		status := "active"
		if !st.Active {
			status = "inactive"
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Roll No":        st.RollNo,
			"Name":           st.FullName,
			"Class":          st.Class,
			"Section":        st.Section,
			"Guardian Phone": st.GuardianPhone,
			"Status":         status,
		})
	}

	return export.NewCSVExporter().Render(dataset)
}

func (s *StudentService) refetch(ctx context.Context, schoolID, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.SchoolID != schoolID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

func filterStudents(students []models.Student, filter models.StudentFilter) []models.Student {
	result := make([]models.Student, 0, len(students))
	for _, st := range students {
		if !anyContainsFold(filter.Search, st.FullName, st.RollNo) {
			continue
		}
		if filter.Class != "" && st.Class != filter.Class {
			continue
		}
		if filter.Section != "" && st.Section != filter.Section {
			continue
		}
		result = append(result, st)
	}
	return result
}
