package models

import "time"

// ProductCategories lists the catalogue categories accepted for products.
var ProductCategories = []string{"Stationery", "Uniforms", "Books", "Sports", "Electronics", "Furniture", "Other"}

// Product is a marketplace catalogue entry. MinimumOrder is the smallest
// quantity a single cart line may hold.
type Product struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Price        int64     `db:"price" json:"price"`
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	Category     string    `db:"category" json:"category"`
	MinimumOrder int       `db:"minimum_order" json:"minimum_order"`
	Stock        int       `db:"stock" json:"stock"`
	CODAvailable bool      `db:"cod_available" json:"cod_available"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ProductFilter narrows catalogue listings.
type ProductFilter struct {
	Search   string
	Category string
}

// ProductRequest creates or updates a catalogue product.
type ProductRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=150"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price        int64   `json:"price" validate:"gt=0"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Category     string  `json:"category" validate:"required"`
	MinimumOrder int     `json:"minimum_order" validate:"gte=1"`
	Stock        int     `json:"stock" validate:"gte=0"`
	CODAvailable bool    `json:"cod_available"`
	IsActive     bool    `json:"is_active"`
}
