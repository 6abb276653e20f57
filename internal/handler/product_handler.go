package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusetu/edusetu-api/internal/models"
	"github.com/edusetu/edusetu-api/internal/service"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
	"github.com/edusetu/edusetu-api/pkg/response"
)

// ProductHandler wires the marketplace catalogue endpoints.
type ProductHandler struct {
	service *service.ProductService
}

// NewProductHandler creates a new handler.
func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{service: svc}
}

func productFilterFromQuery(c *gin.Context) models.ProductFilter {
	return models.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
}

// ListPublic godoc
// @Summary Browse the catalogue
// @Description List active products with optional filters
// @Tags Products
// @Produce json
// @Param search query string false "Name search"
// @Param category query string false "Category filter"
// @Success 200 {object} response.Envelope
// @Router /products [get]
func (h *ProductHandler) ListPublic(c *gin.Context) {
	products, err := h.service.ListPublic(c.Request.Context(), productFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, products, map[string]interface{}{"count": len(products)})
}

// ListAdmin godoc
// @Summary List all products
// @Tags Products
// @Produce json
// @Param search query string false "Name search"
// @Param category query string false "Category filter"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/products [get]
func (h *ProductHandler) ListAdmin(c *gin.Context) {
	products, err := h.service.ListAdmin(c.Request.Context(), productFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, products, map[string]interface{}{"count": len(products)})
}

// Get godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, product, nil)
}

// Create godoc
// @Summary Add a product
// @Tags Products
// @Accept json
// @Produce json
// @Param payload body models.ProductRequest true "Product payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid product payload"))
		return
	}

	product, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, product)
}

// Update godoc
// @Summary Update a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param payload body models.ProductRequest true "Product payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid product payload"))
		return
	}

	product, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, product, nil)
}

// Delete godoc
// @Summary Delete a product
// @Tags Products
// @Param id path string true "Product ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
