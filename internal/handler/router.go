package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edusetu/edusetu-api/internal/middleware"
	"github.com/edusetu/edusetu-api/internal/models"
	"github.com/edusetu/edusetu-api/internal/service"
	corsmiddleware "github.com/edusetu/edusetu-api/pkg/middleware/cors"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth        *AuthHandler
	Bootstrap   *BootstrapHandler
	Tutor       *TutorHandler
	School      *SchoolHandler
	SchoolAdmin *SchoolAdminHandler
	Student     *StudentHandler
	Fee         *FeeHandler
	Attendance  *AttendanceHandler
	Video       *VideoHandler
	Product     *ProductHandler
	Cart        *CartHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes attaches all API routes under the given prefix. Public
// routes serve the marketing site and marketplace; /school routes need a
// school-scoped token; /admin routes are super-admin only.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authService *service.AuthService) {
	// The setup endpoint answers any method from any origin so it can be
	// driven from a browser before the platform has users.
	setup := r.Group("/setup-super-admin")
	setup.Use(corsmiddleware.AllowAll())
	setup.Any("", h.Bootstrap.Setup)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)

		authed := auth.Group("")
		authed.Use(middleware.JWT(authService))
		authed.POST("/logout", h.Auth.Logout)
		authed.POST("/change-password", h.Auth.ChangePassword)
		authed.GET("/me", h.Auth.Me)
	}

	// Public marketplace surface.
	api.GET("/tutors", h.Tutor.ListPublic)
	api.POST("/tutors/apply", h.Tutor.Apply)
	api.GET("/videos", h.Video.List)
	api.GET("/videos/:id", h.Video.Get)
	api.GET("/products", h.Product.ListPublic)
	api.GET("/products/:id", h.Product.Get)

	cart := api.Group("/cart")
	{
		cart.POST("/items", h.Cart.AddItem)
		cart.GET("/:id", h.Cart.Get)
		cart.PUT("/:id/items/:productId", h.Cart.SetQuantity)
		cart.DELETE("/:id/items/:productId", h.Cart.RemoveItem)
		cart.POST("/:id/checkout", h.Cart.Checkout)
	}

	// School dashboard: school admins on their own school, super admins
	// on any school via the school_id query parameter.
	school := api.Group("/school")
	school.Use(middleware.JWT(authService))
	school.Use(middleware.RequireRoles(models.RoleSchoolAdmin, models.RoleSuperAdmin))
	school.Use(middleware.RequireSchool())
	{
		school.GET("/students", h.Student.List)
		school.GET("/students/export", h.Student.ExportCSV)
		school.POST("/students", h.Student.Create)
		school.GET("/students/:id", h.Student.Get)
		school.PUT("/students/:id", h.Student.Update)
		school.DELETE("/students/:id", h.Student.Delete)

		school.GET("/fees", h.Fee.List)
		school.GET("/fees/summary", h.Fee.Summary)
		school.GET("/fees/export", h.Fee.Export)
		school.POST("/fees", h.Fee.Create)
		school.GET("/fees/:id", h.Fee.Get)
		school.PUT("/fees/:id", h.Fee.Update)
		school.DELETE("/fees/:id", h.Fee.Delete)

		school.GET("/attendance", h.Attendance.Roster)
		school.POST("/attendance", h.Attendance.Mark)
	}

	// Super-admin console.
	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authService))
	admin.Use(middleware.RequireRoles(models.RoleSuperAdmin))
	{
		admin.GET("/schools", h.School.List)
		admin.POST("/schools", h.School.Create)
		admin.GET("/schools/:id", h.School.Get)
		admin.PUT("/schools/:id", h.School.Update)
		admin.DELETE("/schools/:id", h.School.Delete)

		admin.GET("/school-admins", h.SchoolAdmin.List)
		admin.POST("/school-admins", h.SchoolAdmin.Create)
		admin.GET("/school-admins/:id", h.SchoolAdmin.Get)
		admin.DELETE("/school-admins/:id", h.SchoolAdmin.Delete)

		admin.GET("/tutors", h.Tutor.ListAdmin)
		admin.GET("/tutors/:id", h.Tutor.Get)
		admin.PUT("/tutors/:id", h.Tutor.Update)
		admin.DELETE("/tutors/:id", h.Tutor.Delete)
		admin.POST("/tutors/:id/approve", h.Tutor.Approve)
		admin.POST("/tutors/:id/reject", h.Tutor.Reject)
		admin.POST("/tutors/:id/toggle-active", h.Tutor.ToggleActive)

		admin.POST("/videos", h.Video.Create)
		admin.PUT("/videos/:id", h.Video.Update)
		admin.DELETE("/videos/:id", h.Video.Delete)

		admin.GET("/products", h.Product.ListAdmin)
		admin.POST("/products", h.Product.Create)
		admin.PUT("/products/:id", h.Product.Update)
		admin.DELETE("/products/:id", h.Product.Delete)
	}
}
