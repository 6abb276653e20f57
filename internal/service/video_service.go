package service

import (
	"context"
	"database/sql"
	"errors"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
)

type videoRepository interface {
	List(ctx context.Context) ([]models.LearningVideo, error)
	FindByID(ctx context.Context, id string) (*models.LearningVideo, error)
	Create(ctx context.Context, video *models.LearningVideo) error
	Update(ctx context.Context, video *models.LearningVideo) error
	Delete(ctx context.Context, id string) error
}

// VideoService manages the curated learning video library.
type VideoService struct {
	repo      videoRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVideoService constructs a VideoService.
func NewVideoService(repo videoRepository, validate *validator.Validate, logger *zap.Logger) *VideoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &VideoService{repo: repo, validator: validate, logger: logger}
}

// List returns videos matching the filter.
func (s *VideoService) List(ctx context.Context, filter models.VideoFilter) ([]models.LearningVideo, error) {
	videos, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list videos")
	}
	result := make([]models.LearningVideo, 0, len(videos))
	for _, v := range videos {
		if !anyContainsFold(filter.Search, v.Title) {
			continue
		}
		if filter.Category != "" && v.Category != filter.Category {
			continue
		}
		result = append(result, v)
	}
	return result, nil
}

// Get returns a single video by ID.
func (s *VideoService) Get(ctx context.Context, id string) (*models.LearningVideo, error) {
	return s.refetch(ctx, id)
}

// Create adds a video to the library.
func (s *VideoService) Create(ctx context.Context, req models.VideoRequest) (*models.LearningVideo, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	video := &models.LearningVideo{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Category:     req.Category,
		AgeGroup:     req.AgeGroup,
	}
	if err := s.repo.Create(ctx, video); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create video")
	}

	s.logger.Info("learning video added", zap.String("video_id", video.ID), zap.String("category", video.Category))
	return s.refetch(ctx, video.ID)
}

// Update modifies a library video.
func (s *VideoService) Update(ctx context.Context, id string, req models.VideoRequest) (*models.LearningVideo, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	video, err := s.refetch(ctx, id)
	if err != nil {
		return nil, err
	}

	video.Title = req.Title
	video.Description = req.Description
	video.VideoURL = req.VideoURL
	video.ThumbnailURL = req.ThumbnailURL
	video.Category = req.Category
	video.AgeGroup = req.AgeGroup

	if err := s.repo.Update(ctx, video); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update video")
	}
	return s.refetch(ctx, id)
}

// Delete removes a video from the library.
func (s *VideoService) Delete(ctx context.Context, id string) error {
	if _, err := s.refetch(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete video")
	}
	return nil
}

func (s *VideoService) validateRequest(req models.VideoRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid video payload")
	}
	if !slices.Contains(models.VideoCategories, req.Category) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown video category")
	}
	if !slices.Contains(models.VideoAgeGroups, req.AgeGroup) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown age group")
	}
	return nil
}

func (s *VideoService) refetch(ctx context.Context, id string) (*models.LearningVideo, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "video not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load video")
	}
	return video, nil
}
