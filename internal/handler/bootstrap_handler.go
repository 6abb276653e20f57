package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusetu/edusetu-api/internal/service"
)

// BootstrapHandler exposes the one-shot super-admin setup endpoint. The
// endpoint speaks a bare JSON contract rather than the API envelope so
// it can be driven from a browser or curl before any client exists.
type BootstrapHandler struct {
	service *service.BootstrapService
	enabled bool
}

// NewBootstrapHandler creates a new handler.
func NewBootstrapHandler(svc *service.BootstrapService, enabled bool) *BootstrapHandler {
	return &BootstrapHandler{service: svc, enabled: enabled}
}

// Setup godoc
// @Summary Provision the super admin account
// @Description Create or repair the platform super admin. Idempotent; repeat calls reset the password.
// @Tags Setup
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /setup-super-admin [post]
func (h *BootstrapHandler) Setup(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "setup endpoint is disabled",
		})
		return
	}

	result, err := h.service.EnsureSuperAdmin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	message := "Super admin is ready. Password has been reset."
	if result.Created {
		message = "Super admin created successfully."
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"credentials": gin.H{
			"email":    result.Email,
			"password": result.Password,
		},
	})
}
