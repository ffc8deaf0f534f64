package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserKey is the gin context key holding the authenticated user ID.
const ContextUserKey = "auth_user_id"

// Middleware rejects requests without a valid bearer token. The 401 bodies
// distinguish expired, invalid, and missing tokens for API clients.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"description": "Request does not contain an access token.",
				"error":       "authorization_required",
			})
			return
		}

		userID, err := m.Verify(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message": "The token has expired.",
					"error":   "token_expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Signature verification failed.",
				"error":   "invalid_token",
			})
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}
