package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edusetu/edusetu-api/internal/middleware"
	"github.com/edusetu/edusetu-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// schoolIDFromContext resolves the school scope for school-dashboard
// routes. A school_admin always acts on their own school; a super_admin
// may pick one with the school_id query parameter.
func schoolIDFromContext(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	if claims.Role == models.RoleSchoolAdmin && claims.SchoolID != nil {
		return *claims.SchoolID
	}
	return c.Query("school_id")
}
