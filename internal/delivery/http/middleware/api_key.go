package middleware

import (
	"crypto/subtle"
	"net/http"

	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/pkg/security"

	"github.com/gin-gonic/gin"
)

// RequireAPIKey guards operator routes with the X-Admin-Key header. An empty
// key disables the routes entirely.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader("X-Admin-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			security.Default().LogUnauthorizedAccess(c.Request.Context(), c.ClientIP(), c.Request.UserAgent(), c.GetString("RequestID"), c.FullPath())
			response.Error(c, http.StatusUnauthorized, "Invalid admin key", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
