package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/api/internal/models"
)

// RequireRole gates a route to one role, replying 403 with the given
// message otherwise. Must run after Authenticate.
func RequireRole(role models.UserRole, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}

		if user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}

		c.Next()
	}
}
