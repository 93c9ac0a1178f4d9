package middleware

import (
	"github.com/gin-gonic/gin"

	"orghub/backend/internal/audit"
	"orghub/backend/internal/server/httpx"
)

// Audit records one audit row per successful mutating request from an
// authenticated caller. Reads and failed requests are not recorded. The write
// is best-effort and never affects the response.
func Audit(logger audit.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" {
			return
		}
		if c.Writer.Status() >= 400 {
			return
		}
		userID := httpx.UserID(c)
		if userID == "" {
			return
		}
		ar := audit.ParseRoute(c.Request.Method, c.FullPath())
		logger.LogEvent(c.Request.Context(), c.Param("org_id"), userID, ar.Action, ar.Resource, c.ClientIP())
	}
}
