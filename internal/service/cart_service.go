package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edusetu/edusetu-api/internal/models"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
)

type cartRepository interface {
	Find(ctx context.Context, id string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id string) error
}

type cartProductRepository interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

// CartService manages session carts for the public marketplace. Carts
// live in Redis under opaque IDs handed to the browser; every line obeys
// the product's minimum order quantity.
type CartService struct {
	repo     cartRepository
	products cartProductRepository
	logger   *zap.Logger
}

// NewCartService constructs a CartService.
func NewCartService(repo cartRepository, products cartProductRepository, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{repo: repo, products: products, logger: logger}
}

// Get returns an existing cart. A missing or expired cart is not found.
func (s *CartService) Get(ctx context.Context, cartID string) (*models.Cart, error) {
	return s.load(ctx, cartID)
}

// AddProduct adds one order of a product to the cart. A new line starts
// at the product's minimum order quantity; adding the same product again
// grows the line by another minimum order. An empty cartID starts a new
// cart.
func (s *CartService) AddProduct(ctx context.Context, cartID, productID string) (*models.Cart, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
	}
	if product.Stock <= 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "product is out of stock")
	}

	var cart *models.Cart
	if cartID == "" {
		cart = &models.Cart{ID: uuid.NewString()}
	} else {
		cart, err = s.load(ctx, cartID)
		if err != nil {
			return nil, err
		}
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity += product.MinimumOrder
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID:    product.ID,
			Name:         product.Name,
			Price:        product.Price,
			MinimumOrder: product.MinimumOrder,
			CODAvailable: product.CODAvailable,
			Quantity:     product.MinimumOrder,
		})
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save cart")
	}
	return cart, nil
}

// SetQuantity sets a line's quantity. Quantities below the product's
// minimum order are clamped up to it; zero removes the line.
func (s *CartService) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		return s.RemoveProduct(ctx, cartID, productID)
	}

	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			if quantity < cart.Lines[i].MinimumOrder {
				quantity = cart.Lines[i].MinimumOrder
			}
			cart.Lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "product is not in the cart")
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save cart")
	}
	return cart, nil
}

// RemoveProduct drops a line from the cart entirely.
func (s *CartService) RemoveProduct(ctx context.Context, cartID, productID string) (*models.Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	lines := cart.Lines[:0]
	removed := false
	for _, line := range cart.Lines {
		if line.ProductID == productID {
			removed = true
			continue
		}
		lines = append(lines, line)
	}
	if !removed {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "product is not in the cart")
	}
	cart.Lines = lines

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save cart")
	}
	return cart, nil
}

// Checkout finalises a cart into an order confirmation and deletes the
// cart. No payment is processed; cash on delivery is offered only when
// every line supports it.
func (s *CartService) Checkout(ctx context.Context, cartID string) (*models.OrderConfirmation, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cart is empty")
	}

	cod := true
	for _, line := range cart.Lines {
		if !line.CODAvailable {
			cod = false
			break
		}
	}

	confirmation := &models.OrderConfirmation{
		OrderNumber:  generateOrderNumber(),
		Lines:        cart.Lines,
		Total:        cart.Total(),
		CODAvailable: cod,
		PlacedAt:     time.Now().UTC(),
	}

	if err := s.repo.Delete(ctx, cartID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close cart")
	}

	s.logger.Info("order placed",
		zap.String("order_number", confirmation.OrderNumber),
		zap.Int64("total", confirmation.Total),
		zap.Int("lines", len(confirmation.Lines)))

	return confirmation, nil
}

func (s *CartService) load(ctx context.Context, cartID string) (*models.Cart, error) {
	if cartID == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "cart not found")
	}
	cart, err := s.repo.Find(ctx, cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cart not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cart")
	}
	return cart, nil
}

func (s *CartService) loadProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	return product, nil
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%04d", time.Now().UTC().Format("20060102"), rand.Intn(10000))
}
