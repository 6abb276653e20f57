package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusetu/edusetu-api/internal/models"
	"github.com/edusetu/edusetu-api/internal/service"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
	"github.com/edusetu/edusetu-api/pkg/response"
)

// TutorHandler wires HTTP endpoints to the tutor service. Public routes
// cover signup and browsing; admin routes drive the review lifecycle.
type TutorHandler struct {
	service *service.TutorService
	metrics *service.MetricsService
}

// NewTutorHandler creates a new handler.
func NewTutorHandler(svc *service.TutorService, metrics *service.MetricsService) *TutorHandler {
	return &TutorHandler{service: svc, metrics: metrics}
}

// Apply godoc
// @Summary Submit a tutor application
// @Description Register a tutor profile for review
// @Tags Tutors
// @Accept json
// @Produce json
// @Param payload body models.TutorApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tutors/apply [post]
func (h *TutorHandler) Apply(c *gin.Context) {
	var req models.TutorApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tutor application"))
		return
	}

	tutor, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, tutor)
}

// ListPublic godoc
// @Summary Browse tutors
// @Description List approved, active tutors with optional filters
// @Tags Tutors
// @Produce json
// @Param search query string false "Search name, subject or location"
// @Param subject query string false "Subject filter"
// @Param location query string false "Location filter"
// @Success 200 {object} response.Envelope
// @Router /tutors [get]
func (h *TutorHandler) ListPublic(c *gin.Context) {
	filter := models.TutorFilter{
		Search:   c.Query("search"),
		Subject:  c.Query("subject"),
		Location: c.Query("location"),
	}

	tutors, err := h.service.ListPublic(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, tutors, map[string]interface{}{"count": len(tutors)})
}

// ListAdmin godoc
// @Summary List all tutors
// @Description List tutors in every lifecycle state
// @Tags Tutors
// @Produce json
// @Param search query string false "Search name, subject or location"
// @Param status query string false "Status filter (pending, approved, rejected)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors [get]
func (h *TutorHandler) ListAdmin(c *gin.Context) {
	filter := models.TutorFilter{
		Search:   c.Query("search"),
		Subject:  c.Query("subject"),
		Location: c.Query("location"),
		Status:   c.Query("status"),
	}

	tutors, err := h.service.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, tutors, map[string]interface{}{"count": len(tutors)})
}

// Get godoc
// @Summary Get a tutor
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors/{id} [get]
func (h *TutorHandler) Get(c *gin.Context) {
	tutor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutor, nil)
}

// Approve godoc
// @Summary Approve a tutor application
// @Description Approve a pending tutor, making the profile public and verified
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors/{id}/approve [post]
func (h *TutorHandler) Approve(c *gin.Context) {
	tutor, err := h.service.Approve(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordTutorDecision("approved")
	response.JSON(c, http.StatusOK, tutor, nil)
}

// Reject godoc
// @Summary Reject a tutor application
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors/{id}/reject [post]
func (h *TutorHandler) Reject(c *gin.Context) {
	tutor, err := h.service.Reject(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordTutorDecision("rejected")
	response.JSON(c, http.StatusOK, tutor, nil)
}

// ToggleActive godoc
// @Summary Toggle tutor visibility
// @Description Show or hide a reviewed tutor in public listings
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors/{id}/toggle-active [post]
func (h *TutorHandler) ToggleActive(c *gin.Context) {
	tutor, err := h.service.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutor, nil)
}

// Update godoc
// @Summary Edit a tutor profile
// @Tags Tutors
// @Accept json
// @Produce json
// @Param id path string true "Tutor ID"
// @Param payload body models.TutorUpdateRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors/{id} [put]
func (h *TutorHandler) Update(c *gin.Context) {
	var req models.TutorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tutor payload"))
		return
	}

	tutor, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutor, nil)
}

// Delete godoc
// @Summary Delete a tutor
// @Tags Tutors
// @Param id path string true "Tutor ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors/{id} [delete]
func (h *TutorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}
