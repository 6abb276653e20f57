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
)

type tutorRepository interface {
	List(ctx context.Context) ([]models.Tutor, error)
	ListActive(ctx context.Context) ([]models.Tutor, error)
	FindByID(ctx context.Context, id string) (*models.Tutor, error)
	Create(ctx context.Context, tutor *models.Tutor) error
	UpdateProfile(ctx context.Context, tutor *models.Tutor) error
	UpdateStatus(ctx context.Context, id string, status models.TutorStatus, isActive, verified bool) error
	SetActive(ctx context.Context, id string, isActive bool) error
	Delete(ctx context.Context, id string) error
}

type tutorAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// TutorService implements the tutor marketplace workflow: public signup,
// public browsing, and the review lifecycle driven from the admin console.
type TutorService struct {
	repo      tutorRepository
	audit     tutorAuditRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTutorService constructs a TutorService.
func NewTutorService(repo tutorRepository, audit tutorAuditRepository, validate *validator.Validate, logger *zap.Logger) *TutorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TutorService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// Apply registers a new tutor application. New profiles always start
// pending, hidden and unverified regardless of the payload.
func (s *TutorService) Apply(ctx context.Context, req models.TutorApplicationRequest) (*models.Tutor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tutor application")
	}

	tutor := &models.Tutor{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Subject:    req.Subject,
		Classes:    req.Classes,
		Location:   req.Location,
		Experience: req.Experience,
		Price:      req.Price,
		Bio:        req.Bio,
		Image:      req.Image,
		Plan:       req.Plan,
		Status:     models.TutorStatusPending,
		IsActive:   false,
		Verified:   false,
	}

	if err := s.repo.Create(ctx, tutor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save tutor application")
	}

	s.logger.Info("tutor application received",
		zap.String("tutor_id", tutor.ID),
		zap.String("subject", tutor.Subject))

	return s.refetch(ctx, tutor.ID)
}

// ListPublic returns approved, active tutors matching the filter.
func (s *TutorService) ListPublic(ctx context.Context, filter models.TutorFilter) ([]models.Tutor, error) {
	tutors, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutors")
	}
	// Status filtering is an admin concern; public listings ignore it.
	filter.Status = ""
	return filterTutors(tutors, filter), nil
}

// ListAdmin returns all tutors regardless of state, matching the filter.
func (s *TutorService) ListAdmin(ctx context.Context, filter models.TutorFilter) ([]models.Tutor, error) {
	tutors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutors")
	}
	return filterTutors(tutors, filter), nil
}

// Get returns a single tutor by ID.
func (s *TutorService) Get(ctx context.Context, id string) (*models.Tutor, error) {
	return s.refetch(ctx, id)
}

// Approve moves a tutor to approved, making the profile public and
// verified. Approving an already approved tutor is a no-op; a rejected
// tutor cannot be approved.
func (s *TutorService) Approve(ctx context.Context, id string, actorID string) (*models.Tutor, error) {
	tutor, err := s.refetch(ctx, id)
	if err != nil {
		return nil, err
	}

	switch tutor.Status {
	case models.TutorStatusApproved:
		return tutor, nil
	case models.TutorStatusRejected:
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "rejected tutors cannot be approved")
	}

	if err := s.repo.UpdateStatus(ctx, id, models.TutorStatusApproved, true, true); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve tutor")
	}

	s.recordAudit(ctx, actorID, models.AuditActionTutorApprove, id, fmt.Sprintf(`{"from":%q,"to":"approved"}`, tutor.Status))
	return s.refetch(ctx, id)
}

// Reject marks a tutor rejected and hides it. The verified flag stays
// as it was so a previously approved profile keeps its history. A
// rejected tutor stays rejected on repeat calls.
func (s *TutorService) Reject(ctx context.Context, id string, actorID string) (*models.Tutor, error) {
	tutor, err := s.refetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if tutor.Status == models.TutorStatusRejected {
		return tutor, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, models.TutorStatusRejected, false, tutor.Verified); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject tutor")
	}

	s.recordAudit(ctx, actorID, models.AuditActionTutorReject, id, fmt.Sprintf(`{"from":%q,"to":"rejected"}`, tutor.Status))
	return s.refetch(ctx, id)
}

// ToggleActive flips public visibility for a reviewed tutor. Pending
// applications cannot be made visible ahead of review.
func (s *TutorService) ToggleActive(ctx context.Context, id string) (*models.Tutor, error) {
	tutor, err := s.refetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if tutor.Status == models.TutorStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "pending tutors must be reviewed before visibility changes")
	}

	if err := s.repo.SetActive(ctx, id, !tutor.IsActive); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle tutor visibility")
	}

	return s.refetch(ctx, id)
}

// Update edits descriptive profile fields. Status, visibility and
// verification are untouched.
func (s *TutorService) Update(ctx context.Context, id string, req models.TutorUpdateRequest) (*models.Tutor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tutor update")
	}

	tutor, err := s.refetch(ctx, id)
	if err != nil {
		return nil, err
	}

	tutor.Name = req.Name
	tutor.Email = req.Email
	tutor.Phone = req.Phone
	tutor.Subject = req.Subject
	tutor.Classes = req.Classes
	tutor.Location = req.Location
	tutor.Rating = req.Rating
	tutor.Reviews = req.Reviews
	tutor.Experience = req.Experience
	tutor.Price = req.Price
	tutor.Bio = req.Bio
	tutor.Image = req.Image
	tutor.Plan = req.Plan

	if err := s.repo.UpdateProfile(ctx, tutor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tutor")
	}

	return s.refetch(ctx, id)
}

// Delete removes a tutor profile permanently.
func (s *TutorService) Delete(ctx context.Context, id string) error {
	if _, err := s.refetch(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tutor")
	}
	return nil
}

func (s *TutorService) refetch(ctx context.Context, id string) (*models.Tutor, error) {
	tutor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}
	return tutor, nil
}

func (s *TutorService) recordAudit(ctx context.Context, actorID, action, tutorID, payload string) {
	if s.audit == nil {
		return
	}
	var userID *string
	if actorID != "" {
		userID = &actorID
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   "tutors",
		ResourceID: &tutorID,
		NewValues:  []byte(payload),
	}); err != nil {
		s.logger.Warn("failed to record tutor audit log", zap.Error(err))
	}
}

func filterTutors(tutors []models.Tutor, filter models.TutorFilter) []models.Tutor {
	result := make([]models.Tutor, 0, len(tutors))
	for _, t := range tutors {
		if !anyContainsFold(filter.Search, t.Name, t.Subject, t.Location) {
			continue
		}
		if filter.Subject != "" && !containsFold(t.Subject, filter.Subject) {
			continue
		}
		if filter.Location != "" && !containsFold(t.Location, filter.Location) {
			continue
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		result = append(result, t)
	}
	return result
}
