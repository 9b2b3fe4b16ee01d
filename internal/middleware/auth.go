package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/api/internal/models"
	"carelink/api/internal/security"
)

// AccessTokenCookie is the cookie carrying the short-lived access token.
const AccessTokenCookie = "accessToken"

const currentUserKey = "carelink.current_user"

type UserLoader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type SessionLoader interface {
	GetByID(ctx context.Context, id string) (models.Session, error)
}

// Authenticate is the per-request gate: it reads the access-token cookie,
// verifies it, confirms the backing session still exists, and attaches the
// resolved user to the request context. The expired and invalid outcomes
// carry distinct messages so a client knows whether a refresh is worth
// attempting.
func Authenticate(codec *security.TokenCodec, users UserLoader, sessions SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(AccessTokenCookie)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}

		claims, err := codec.VerifyAccess(tokenStr)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, security.ErrTokenExpired) {
				message = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		session, err := sessions.GetByID(c.Request.Context(), claims.SessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), session.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the identity attached by Authenticate.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
