// internal/interfaces/http/middleware/security.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets response headers appropriate for a JSON API consumed
// by a separate frontend
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Server", "Storefront API")

		// Cart and payment responses carry per-session data
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Header("Cache-Control", "no-store")
		}

		c.Next()
	}
}
