package middleware

import (
	"strings"

	"github.com/expensio/internal/service"
	"github.com/expensio/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyUserID is the key for the authenticated user ID in gin context
	ContextKeyUserID = "user_id"

	bearerPrefix = "Bearer "
)

// AuthMiddleware rejects requests without a verifiable bearer token and
// attaches the verified user ID to the request context. No owner-scoped
// handler runs without that identity in place.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)

		c.Next()
	}
}

// GetUserID gets the authenticated user ID from the gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0
	}
	return userID.(uint)
}
