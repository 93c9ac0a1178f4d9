// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"orghub/backend/internal/config"
	"orghub/backend/internal/db"
	membershipdomain "orghub/backend/internal/membership/domain"
	membershiprepo "orghub/backend/internal/membership/repository"
	notedomain "orghub/backend/internal/note/domain"
	noterepo "orghub/backend/internal/note/repository"
	orgdomain "orghub/backend/internal/organization/domain"
	orgrepo "orghub/backend/internal/organization/repository"
	"orghub/backend/internal/security"
	tododomain "orghub/backend/internal/todo/domain"
	todorepo "orghub/backend/internal/todo/repository"
	userdomain "orghub/backend/internal/user/domain"
	userrepo "orghub/backend/internal/user/repository"
)

const (
	devAdminEmail    = "dev@example.com"
	devAdminUsername = "dev"
	devMemberEmail   = "member@example.com"
	devMemberName    = "member"
	devPassword      = "password123"
	devOrgName       = "Dev Org"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, devAdminEmail)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if existing != nil {
		log.Printf("seed: %s already exists, nothing to do", devAdminEmail)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	digest, err := hasher.Hash(devPassword)
	if err != nil {
		log.Fatalf("seed: hash: %v", err)
	}

	orgs := orgrepo.NewPostgresRepository(conn)
	memberships := membershiprepo.NewPostgresRepository(conn)
	notes := noterepo.NewPostgresRepository(conn)
	todos := todorepo.NewPostgresRepository(conn)

	now := time.Now().UTC()
	admin := &userdomain.User{
		ID:           uuid.New().String(),
		Username:     devAdminUsername,
		Email:        devAdminEmail,
		PasswordHash: digest,
		IsActive:     true,
		CreatedAt:    now,
	}
	member := &userdomain.User{
		ID:           uuid.New().String(),
		Username:     devMemberName,
		Email:        devMemberEmail,
		PasswordHash: digest,
		IsActive:     true,
		CreatedAt:    now,
	}
	org := &orgdomain.Org{ID: uuid.New().String(), Name: devOrgName, CreatedAt: now}

	for _, u := range []*userdomain.User{admin, member} {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("seed: user %s: %v", u.Username, err)
		}
	}
	if err := orgs.Create(ctx, org); err != nil {
		log.Fatalf("seed: org: %v", err)
	}
	for _, m := range []*membershipdomain.Membership{
		{ID: uuid.New().String(), UserID: admin.ID, OrgID: org.ID, Role: membershipdomain.RoleAdmin, JoinedAt: now},
		{ID: uuid.New().String(), UserID: member.ID, OrgID: org.ID, Role: membershipdomain.RoleMember, JoinedAt: now},
	} {
		if err := memberships.Create(ctx, m); err != nil {
			log.Fatalf("seed: membership: %v", err)
		}
	}
	if err := notes.Create(ctx, &notedomain.Note{
		ID: uuid.New().String(), OrgID: org.ID, CreatedBy: admin.ID,
		Title: "Welcome", Body: "First note in " + devOrgName,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		log.Fatalf("seed: note: %v", err)
	}
	if err := todos.Create(ctx, &tododomain.Todo{
		ID: uuid.New().String(), OrgID: org.ID, CreatedBy: member.ID,
		Title: "Try the API", Body: "Log in as " + devAdminEmail,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		log.Fatalf("seed: todo: %v", err)
	}

	log.Printf("seed: created %s (admin) and %s (member) in %q, password %q",
		devAdminEmail, devMemberEmail, devOrgName, devPassword)
}
