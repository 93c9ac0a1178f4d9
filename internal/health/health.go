// Package health reports process and database liveness.
package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler serves GET /api/health.
type Handler struct {
	db *sql.DB
}

// NewHandler returns a health Handler over the given database handle.
func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

// Check pings the database with a short deadline. Degraded storage turns the
// endpoint into a 503 so load balancers stop routing here.
func (h *Handler) Check(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
