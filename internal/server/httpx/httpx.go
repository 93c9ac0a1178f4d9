// Package httpx holds helpers shared by the HTTP handlers: the error-to-status
// mapping and the per-request identity stored by the auth middleware.
package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orghub/backend/internal/platform/apperr"
)

// ContextUserKey is the gin context key under which the auth middleware stores
// the authenticated user ID.
const ContextUserKey = "auth.user_id"

// SetUserID records the authenticated user on the request context.
func SetUserID(c *gin.Context, userID string) {
	c.Set(ContextUserKey, userID)
}

// UserID returns the authenticated user ID, or "" when the request is anonymous.
func UserID(c *gin.Context) string {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// Error writes err as a JSON error response. Typed errors map onto their HTTP
// status; anything else is a 500 with a generic message so internals never leak.
func Error(c *gin.Context, err error) {
	if e := apperr.AsError(err); e != nil {
		c.JSON(statusFor(e.Kind), gin.H{"error": e.Reason})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
