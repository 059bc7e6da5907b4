package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/newsly/newsly/internal/token"
)

const (
	userIDKey    = "userID"
	userEmailKey = "userEmail"
)

// RequireAuth extracts and verifies the bearer token, storing the caller
// identity in the request context. Requests without a valid token are
// rejected with AUTH_UNAUTHORIZED.
func RequireAuth(tm *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "authorization token is not provided")
			return
		}

		// Token format: "Bearer <token>"
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := tm.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(c *gin.Context) (string, error) {
	userID, ok := c.Get(userIDKey)
	if !ok {
		return "", errors.New("user ID not found in context")
	}
	return userID.(string), nil
}

// GetUserEmail extracts the authenticated user email from the request context.
func GetUserEmail(c *gin.Context) (string, error) {
	email, ok := c.Get(userEmailKey)
	if !ok {
		return "", errors.New("user email not found in context")
	}
	return email.(string), nil
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  "AUTH_UNAUTHORIZED",
		"error": msg,
	})
}
