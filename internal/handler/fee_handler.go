package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusetu/edusetu-api/internal/models"
	"github.com/edusetu/edusetu-api/internal/service"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
	"github.com/edusetu/edusetu-api/pkg/response"
)

// FeeHandler wires the school dashboard's fee endpoints.
type FeeHandler struct {
	service *service.FeeService
}

// NewFeeHandler creates a new handler.
func NewFeeHandler(svc *service.FeeService) *FeeHandler {
	return &FeeHandler{service: svc}
}

func feeFilterFromQuery(c *gin.Context) models.FeeFilter {
	return models.FeeFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Class:  c.Query("class"),
	}
}

// List godoc
// @Summary List fee records
// @Tags Fees
// @Produce json
// @Param search query string false "Search student name or roll number"
// @Param status query string false "Status filter (paid, partial, pending)"
// @Param class query string false "Class filter"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /school/fees [get]
func (h *FeeHandler) List(c *gin.Context) {
	schoolID := schoolIDFromContext(c)
	if schoolID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school scope is required"))
		return
	}

	records, err := h.service.List(c.Request.Context(), schoolID, feeFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// Summary godoc
// @Summary Fee collection summary
// @Tags Fees
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /school/fees/summary [get]
func (h *FeeHandler) Summary(c *gin.Context) {
	schoolID := schoolIDFromContext(c)
	if schoolID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school scope is required"))
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), schoolID, feeFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Get godoc
// @Summary Get a fee record
// @Tags Fees
// @Produce json
// @Param id path string true "Fee record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /school/fees/{id} [get]
func (h *FeeHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), schoolIDFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Create a fee record
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body models.FeeRequest true "Fee payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /school/fees [post]
func (h *FeeHandler) Create(c *gin.Context) {
	schoolID := schoolIDFromContext(c)
	if schoolID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school scope is required"))
		return
	}

	var req models.FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fee payload"))
		return
	}

	record, err := h.service.Create(c.Request.Context(), schoolID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update a fee record
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "Fee record ID"
// @Param payload body models.FeeRequest true "Fee payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /school/fees/{id} [put]
func (h *FeeHandler) Update(c *gin.Context) {
	var req models.FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fee payload"))
		return
	}

	record, err := h.service.Update(c.Request.Context(), schoolIDFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete a fee record
// @Tags Fees
// @Param id path string true "Fee record ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /school/fees/{id} [delete]
func (h *FeeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), schoolIDFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export the fee ledger
// @Description Download the filtered fee ledger as CSV or PDF
// @Tags Fees
// @Produce text/csv
// @Param format query string false "csv (default) or pdf"
// @Success 200 {string} string "file"
// @Security BearerAuth
// @Router /school/fees/export [get]
func (h *FeeHandler) Export(c *gin.Context) {
	schoolID := schoolIDFromContext(c)
	if schoolID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school scope is required"))
		return
	}

	filter := feeFilterFromQuery(c)
	date := time.Now().UTC().Format("20060102")

	switch c.DefaultQuery("format", "csv") {
	case "pdf":
		payload, err := h.service.ExportPDF(c.Request.Context(), schoolID, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("fees-%s.pdf", date)))
		c.Data(http.StatusOK, "application/pdf", payload)
	case "csv":
		payload, err := h.service.ExportCSV(c.Request.Context(), schoolID, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("fees-%s.csv", date)))
		c.Data(http.StatusOK, "text/csv", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}
