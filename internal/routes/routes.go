package routes

import (
	"net/http"

	"dlibrary_backend/internal/config"
	"dlibrary_backend/internal/handlers"
	"dlibrary_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public auth surface, the self-service user
// surface and the origin-guarded admin surface under /api.
func RegisterRoutes(router *gin.Engine, cfg *config.Config, h *handlers.AppHandlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.GET("/verify", h.Auth.VerifyEmail)
		auth.POST("/verify-code", h.Auth.VerifyEmailByCode)
		auth.POST("/resend", h.Auth.ResendVerification)
		auth.POST("/login", h.Auth.Login)
	}

	users := api.Group("/users")
	{
		users.GET("/me", h.User.GetMe)
		users.PUT("/me", h.User.UpdateMe)
		users.POST("/change-password", h.User.ChangePassword)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminOriginGuard(cfg.IsProduction(), cfg.Frontend.AllowedOrigins))
	{
		admin.GET("/users", h.Admin.ListUsers)
		admin.GET("/unverified", h.Admin.ListUnverified)
		admin.GET("/user", h.Admin.GetUserByEmail)
		admin.PUT("/users/:id/ban", h.Admin.BanUser)
		admin.PUT("/users/:id/suspend", h.Admin.SuspendUser)
		admin.PUT("/users/:id/unsuspend", h.Admin.UnsuspendUser)
		admin.PUT("/users/:id/role", h.Admin.ChangeRole)
		admin.DELETE("/users/:id", h.Admin.SoftDeleteUser)
		admin.PUT("/users/:id/restore", h.Admin.RestoreUser)
		admin.POST("/test-email", h.Admin.SendTestEmail)
	}
}
