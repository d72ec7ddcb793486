package middleware

import (
	"strings"

	"dlibrary_backend/internal/logger"
	"dlibrary_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// AdminOriginGuard restricts the admin surface in production to requests
// whose Origin or Referer matches an allowed frontend. Outside production
// it is a no-op. With no origins configured it warns and lets everything
// through rather than locking admins out of a misconfigured deploy.
func AdminOriginGuard(production bool, allowedOrigins []string) gin.HandlerFunc {
	if !production {
		return func(c *gin.Context) { c.Next() }
	}

	if len(allowedOrigins) == 0 {
		logger.Warn("admin origin guard active with no allowed origins configured, allowing all")
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		source := c.GetHeader("Origin")
		if source == "" {
			source = c.GetHeader("Referer")
		}

		for _, allowed := range allowedOrigins {
			if allowed != "" && strings.HasPrefix(source, allowed) {
				c.Next()
				return
			}
		}

		logger.CtxWarn(c.Request.Context(), "admin request rejected by origin guard",
			"origin", source,
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewForbiddenError("Admin access is not allowed from this origin"))
		c.Abort()
	}
}
