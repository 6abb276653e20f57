package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusetu/edusetu-api/internal/models"
	"github.com/edusetu/edusetu-api/internal/service"
	appErrors "github.com/edusetu/edusetu-api/pkg/errors"
	"github.com/edusetu/edusetu-api/pkg/response"
)

// SchoolAdminHandler manages school administrator accounts from the
// super-admin console.
type SchoolAdminHandler struct {
	service *service.SchoolAdminService
}

// NewSchoolAdminHandler creates a new handler.
func NewSchoolAdminHandler(svc *service.SchoolAdminService) *SchoolAdminHandler {
	return &SchoolAdminHandler{service: svc}
}

// List godoc
// @Summary List school admins
// @Tags SchoolAdmins
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/school-admins [get]
func (h *SchoolAdminHandler) List(c *gin.Context) {
	admins, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admins, map[string]interface{}{"count": len(admins)})
}

// Create godoc
// @Summary Create a school admin
// @Description Provision a school administrator account bound to a school
// @Tags SchoolAdmins
// @Accept json
// @Produce json
// @Param payload body models.SchoolAdminCreateRequest true "Account payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/school-admins [post]
func (h *SchoolAdminHandler) Create(c *gin.Context) {
	var req models.SchoolAdminCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid school admin payload"))
		return
	}

	admin, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admin)
}

// Get godoc
// @Summary Get a school admin
// @Tags SchoolAdmins
// @Produce json
// @Param id path string true "Binding ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/school-admins/{id} [get]
func (h *SchoolAdminHandler) Get(c *gin.Context) {
	admin, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// Delete godoc
// @Summary Delete a school admin
// @Description Remove the account and every session it holds
// @Tags SchoolAdmins
// @Param id path string true "Binding ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/school-admins/{id} [delete]
func (h *SchoolAdminHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
