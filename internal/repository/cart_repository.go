package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edusetu/edusetu-api/internal/models"
)

// CartRepository stores session carts in Redis as JSON blobs under an
// opaque cart ID. Each write refreshes the TTL, so an abandoned cart
// expires on its own.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository constructs a CartRepository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func cartKey(id string) string {
	return "cart:" + id
}

// Find loads a cart by ID. Missing carts surface as sql.ErrNoRows so the
// service layer can reuse its not-found mapping.
func (r *CartRepository) Find(ctx context.Context, id string) (*models.Cart, error) {
	raw, err := r.client.Get(ctx, cartKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("redis get cart %s: %w", id, err)
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart %s: %w", id, err)
	}
	return &cart, nil
}

// Save stores a cart and refreshes its TTL.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart %s: %w", cart.ID, err)
	}
	if err := r.client.Set(ctx, cartKey(cart.ID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart %s: %w", cart.ID, err)
	}
	return nil
}

// Delete removes a cart, typically after checkout.
func (r *CartRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, cartKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete cart %s: %w", id, err)
	}
	return nil
}
