package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusetu/edusetu-api/internal/service"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
	"github.com/edusetu/edusetu-api/pkg/response"
)

// CartHandler wires the public marketplace cart endpoints. The cart ID
// returned from the first add is the browser's handle for every later
// call.
type CartHandler struct {
	service *service.CartService
	metrics *service.MetricsService
}

// NewCartHandler creates a new handler.
func NewCartHandler(svc *service.CartService, metrics *service.MetricsService) *CartHandler {
	return &CartHandler{service: svc, metrics: metrics}
}

// AddItem godoc
// @Summary Add a product to a cart
// @Description Adds one minimum-order of a product. Omit cart_id to start a new cart.
// @Tags Cart
// @Accept json
// @Produce json
// @Param payload body object true "cart_id (optional) and product_id"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var payload struct {
		CartID    string `json:"cart_id"`
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "product_id is required"))
		return
	}

	cart, err := h.service.AddProduct(c.Request.Context(), payload.CartID, payload.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordCartOperation("add")
	response.JSON(c, http.StatusOK, cart, map[string]interface{}{"total": cart.Total()})
}

// Get godoc
// @Summary Get a cart
// @Tags Cart
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cart/{id} [get]
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cart, map[string]interface{}{"total": cart.Total()})
}

// SetQuantity godoc
// @Summary Set a line's quantity
// @Description Quantities below the product minimum are raised to it; zero removes the line.
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param productId path string true "Product ID"
// @Param payload body object true "quantity"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cart/{id}/items/{productId} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "quantity is required"))
		return
	}

	cart, err := h.service.SetQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), payload.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordCartOperation("adjust")
	response.JSON(c, http.StatusOK, cart, map[string]interface{}{"total": cart.Total()})
}

// RemoveItem godoc
// @Summary Remove a product from a cart
// @Tags Cart
// @Produce json
// @Param id path string true "Cart ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cart/{id}/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.service.RemoveProduct(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordCartOperation("remove")
	response.JSON(c, http.StatusOK, cart, map[string]interface{}{"total": cart.Total()})
}

// Checkout godoc
// @Summary Checkout a cart
// @Description Closes the cart and returns the order confirmation
// @Tags Cart
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cart/{id}/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	confirmation, err := h.service.Checkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordCartOperation("checkout")
	h.metrics.RecordOrder(confirmation.Total)
	response.JSON(c, http.StatusOK, confirmation, nil)
}
