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

type productRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductService manages the marketplace catalogue.
type ProductService struct {
	repo      productRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProductService constructs a ProductService.
func NewProductService(repo productRepository, validate *validator.Validate, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProductService{repo: repo, validator: validate, logger: logger}
}

// ListPublic returns active products matching the filter.
func (s *ProductService) ListPublic(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list products")
	}
	return filterProducts(products, filter), nil
}

// ListAdmin returns all products regardless of state, matching the filter.
func (s *ProductService) ListAdmin(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list products")
	}
	return filterProducts(products, filter), nil
}

// Get returns a single product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.refetch(ctx, id)
}

// Create adds a product to the catalogue.
func (s *ProductService) Create(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
		MinimumOrder: req.MinimumOrder,
		Stock:        req.Stock,
		CODAvailable: req.CODAvailable,
		IsActive:     req.IsActive,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create product")
	}

	s.logger.Info("product added", zap.String("product_id", product.ID), zap.String("category", product.Category))
	return s.refetch(ctx, product.ID)
}

// Update modifies a catalogue product.
func (s *ProductService) Update(ctx context.Context, id string, req models.ProductRequest) (*models.Product, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	product, err := s.refetch(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.ImageURL = req.ImageURL
	product.Category = req.Category
	product.MinimumOrder = req.MinimumOrder
	product.Stock = req.Stock
	product.CODAvailable = req.CODAvailable
	product.IsActive = req.IsActive

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update product")
	}
	return s.refetch(ctx, id)
}

// Delete removes a product from the catalogue.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.refetch(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete product")
	}
	return nil
}

func (s *ProductService) validateRequest(req models.ProductRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product payload")
	}
	if !slices.Contains(models.ProductCategories, req.Category) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown product category")
	}
	return nil
}

func (s *ProductService) refetch(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	return product, nil
}

func filterProducts(products []models.Product, filter models.ProductFilter) []models.Product {
	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !anyContainsFold(filter.Search, p.Name) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		result = append(result, p)
	}
	return result
}
