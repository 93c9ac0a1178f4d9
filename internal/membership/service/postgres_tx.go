package service

import (
	"context"
	"database/sql"

	"orghub/backend/internal/db"
	membershiprepo "orghub/backend/internal/membership/repository"
	orgrepo "orghub/backend/internal/organization/repository"
	userrepo "orghub/backend/internal/user/repository"
)

// PostgresTx implements Tx over database/sql transactions: fn runs against
// repositories bound to one *sql.Tx, rolled back on error and committed
// otherwise. Transactions are SERIALIZABLE because the lifecycle service's
// admin counting and duplicate lookups are check-and-act sequences; weaker
// isolation lets two concurrent demotions both count two admins and commit.
type PostgresTx struct {
	db *sql.DB
}

// NewPostgresTx returns a Tx runner over the given connection pool.
func NewPostgresTx(d *sql.DB) *PostgresTx {
	return &PostgresTx{db: d}
}

// Run implements Tx.
func (p *PostgresTx) Run(ctx context.Context, fn func(r Repos) error) error {
	return db.WithSerializableTx(ctx, p.db, func(tx *sql.Tx) error {
		return fn(Repos{
			Users:       userrepo.NewPostgresRepository(tx),
			Orgs:        orgrepo.NewPostgresRepository(tx),
			Memberships: membershiprepo.NewPostgresRepository(tx),
		})
	})
}

// PostgresRepos returns a Repos bundle over the pool for non-transactional reads.
func PostgresRepos(d *sql.DB) Repos {
	return Repos{
		Users:       userrepo.NewPostgresRepository(d),
		Orgs:        orgrepo.NewPostgresRepository(d),
		Memberships: membershiprepo.NewPostgresRepository(d),
	}
}
