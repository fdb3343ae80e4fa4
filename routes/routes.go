package routes

import (
	"cafe-directory/handlers"
	"cafe-directory/metrics"
	"cafe-directory/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, sessions *middleware.Sessions) {
	// ── Operational ──────────────────────────────────────────────────────────
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	site := r.Group("/")
	site.Use(sessions.LoadPrincipal())
	{
		// Public pages
		site.GET("/", h.Home)
		site.GET("/all_cafes", h.ListCafes)
		site.GET("/cafe_manager", h.ManageCafes)

		// Accounts
		site.GET("/register", h.RegisterPage)
		site.POST("/register", h.Register)
		site.GET("/login", h.LoginPage)
		site.POST("/login", h.Login)
		site.GET("/logout", h.Logout)

		// Any authenticated user
		site.GET("/add_cafe", h.AddCafeForm)
		site.POST("/add_cafe", h.AddCafe)

		// Admin only, checked by the access policy inside each handler
		site.GET("/edit-cafe/:cafe_id", h.EditCafeForm)
		site.POST("/edit-cafe/:cafe_id", h.EditCafe)
		site.GET("/delete/:cafe_id", h.DeleteCafe)
	}
}
