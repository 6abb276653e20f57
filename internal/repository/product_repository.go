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

const productColumns = `id, name, description, price, image_url, category, minimum_order, stock, cod_available, is_active, created_at, updated_at`

// ProductRepository manages persistence for marketplace products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository constructs a ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns all products, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM marketplace_products ORDER BY created_at DESC`, productColumns)
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListActive returns the public catalogue, newest first.
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM marketplace_products WHERE is_active = TRUE ORDER BY created_at DESC`, productColumns)
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	return products, nil
}

// FindByID fetches a product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM marketplace_products WHERE id = $1`, productColumns)
	var product models.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	const query = `INSERT INTO marketplace_products (id, name, description, price, image_url, category, minimum_order, stock, cod_available, is_active, created_at, updated_at)
        VALUES (:id, :name, :description, :price, :image_url, :category, :minimum_order, :stock, :cod_available, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Update modifies an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()
	const query = `UPDATE marketplace_products SET name = :name, description = :description, price = :price, image_url = :image_url,
        category = :category, minimum_order = :minimum_order, stock = :stock, cod_available = :cod_available, is_active = :is_active,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM marketplace_products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
