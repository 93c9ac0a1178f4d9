// Package server assembles the HTTP API: routes, CORS, and middleware order.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "orghub/backend/internal/auth/handler"
	"orghub/backend/internal/config"
	"orghub/backend/internal/health"
	membershiphandler "orghub/backend/internal/membership/handler"
	notehandler "orghub/backend/internal/note/handler"
	orghandler "orghub/backend/internal/organization/handler"
	todohandler "orghub/backend/internal/todo/handler"
)

// Handlers bundles the feature handlers mounted by the router.
type Handlers struct {
	Auth    *authhandler.Handler
	Orgs    *orghandler.Handler
	Members *membershiphandler.Handler
	Notes   *notehandler.Handler
	Todos   *todohandler.Handler
	Health  *health.Handler
}

// NewRouter builds the gin engine. requireAuth guards everything that needs an
// authenticated caller; audit runs outside it so it sees the final status.
func NewRouter(cfg *config.Config, h Handlers, requireAuth, audit gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOriginList(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.Use(audit)
	{
		api.GET("/health", h.Health.Check)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", requireAuth, h.Auth.Me)
		}

		orgs := api.Group("/orgs", requireAuth)
		{
			orgs.POST("", h.Orgs.Create)
			orgs.GET("", h.Orgs.List)
			orgs.GET("/:org_id", h.Orgs.Get)
			orgs.PUT("/:org_id", h.Orgs.Update)
			orgs.DELETE("/:org_id", h.Orgs.Delete)

			orgs.GET("/:org_id/members", h.Members.List)
			orgs.POST("/:org_id/members", h.Members.Invite)
			orgs.PUT("/:org_id/members/:user_id/role", h.Members.ChangeRole)
			orgs.DELETE("/:org_id/members/:user_id", h.Members.Remove)

			orgs.GET("/:org_id/notes", h.Notes.List)
			orgs.POST("/:org_id/notes", h.Notes.Create)
			orgs.GET("/:org_id/notes/:id", h.Notes.Get)
			orgs.PUT("/:org_id/notes/:id", h.Notes.Update)
			orgs.DELETE("/:org_id/notes/:id", h.Notes.Delete)

			orgs.GET("/:org_id/todos", h.Todos.List)
			orgs.POST("/:org_id/todos", h.Todos.Create)
			orgs.GET("/:org_id/todos/:id", h.Todos.Get)
			orgs.PUT("/:org_id/todos/:id", h.Todos.Update)
			orgs.DELETE("/:org_id/todos/:id", h.Todos.Delete)
		}
	}

	return r
}
