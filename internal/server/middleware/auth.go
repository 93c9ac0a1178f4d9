// Package middleware holds the gin middleware for the API: bearer-token
// authentication and audit logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"orghub/backend/internal/security"
	"orghub/backend/internal/server/httpx"
	userdomain "orghub/backend/internal/user/domain"
)

// UserRepo loads users for token validation.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// RequireAuth validates the Authorization bearer token, confirms the user
// still exists and is active, and stores the user ID on the request context.
// Deactivated users are rejected even if their token has not expired yet.
func RequireAuth(tokens *security.TokenProvider, users UserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is required"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header format must be Bearer {token}"})
			return
		}
		userID, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account is not active"})
			return
		}
		httpx.SetUserID(c, user.ID)
		c.Next()
	}
}
