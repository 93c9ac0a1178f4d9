package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"orghub/backend/internal/audit"
	auditrepo "orghub/backend/internal/audit/repository"
	authhandler "orghub/backend/internal/auth/handler"
	authservice "orghub/backend/internal/auth/service"
	"orghub/backend/internal/config"
	"orghub/backend/internal/db"
	"orghub/backend/internal/health"
	membershiphandler "orghub/backend/internal/membership/handler"
	membershipservice "orghub/backend/internal/membership/service"
	notehandler "orghub/backend/internal/note/handler"
	noterepo "orghub/backend/internal/note/repository"
	noteservice "orghub/backend/internal/note/service"
	orghandler "orghub/backend/internal/organization/handler"
	orgrepo "orghub/backend/internal/organization/repository"
	"orghub/backend/internal/platform/authz"
	"orghub/backend/internal/security"
	"orghub/backend/internal/server"
	"orghub/backend/internal/server/middleware"
	"orghub/backend/internal/telemetry"
	todohandler "orghub/backend/internal/todo/handler"
	todorepo "orghub/backend/internal/todo/repository"
	todoservice "orghub/backend/internal/todo/service"
	userrepo "orghub/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, "orghub-api", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	signer, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("jwt private key: %v", err)
	}
	public, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("jwt public key: %v", err)
	}
	tokens := security.NewTokenProvider(signer, public, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	engine, err := authz.NewRegoEngine()
	if err != nil {
		log.Fatalf("authz: %v", err)
	}

	users := userrepo.NewPostgresRepository(conn)
	orgs := orgrepo.NewPostgresRepository(conn)
	notes := noterepo.NewPostgresRepository(conn)
	todos := todorepo.NewPostgresRepository(conn)
	auditLogger := audit.NewLogger(
		auditrepo.NewPostgresRepository(conn),
		telemetry.NewEventEmitter(providers.LoggerProvider),
	)

	repos := membershipservice.PostgresRepos(conn)
	memberships := membershipservice.NewService(
		repos,
		membershipservice.NewPostgresTx(conn),
		engine,
		hasher,
	)
	memberLookup := repos.Memberships
	auth := authservice.NewService(users, memberLookup, hasher, tokens)
	noteSvc := noteservice.NewService(notes, memberLookup, orgs, engine)
	todoSvc := todoservice.NewService(todos, memberLookup, orgs, engine)

	router := server.NewRouter(cfg, server.Handlers{
		Auth:    authhandler.NewHandler(auth),
		Orgs:    orghandler.NewHandler(memberships),
		Members: membershiphandler.NewHandler(memberships),
		Notes:   notehandler.NewHandler(noteSvc),
		Todos:   todohandler.NewHandler(todoSvc),
		Health:  health.NewHandler(conn),
	},
		middleware.RequireAuth(tokens, users),
		middleware.Audit(auditLogger),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "http.server"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
