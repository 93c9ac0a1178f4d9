package repository

import (
	"context"
	"database/sql"
	"errors"

	"orghub/backend/internal/db"
	"orghub/backend/internal/organization/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns an organization repository over the given db or transaction.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

func scanOrg(row *sql.Row) (*domain.Org, error) {
	var o domain.Org
	err := row.Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// GetByID returns the organization for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Org, error) {
	return scanOrg(r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM organizations WHERE id = $1`, id))
}

// GetByName returns the organization with the given name, or nil if not found.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*domain.Org, error) {
	return scanOrg(r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM organizations WHERE name = $1`, name))
}

// Create persists the organization. The organization must have ID set.
// A name taken by a concurrent create comes back as Conflict.
func (r *PostgresRepository) Create(ctx context.Context, o *domain.Org) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)`,
		o.ID, o.Name, o.CreatedAt)
	return db.ConflictOnUnique(err, "organization name already taken")
}

// UpdateName renames the organization.
func (r *PostgresRepository) UpdateName(ctx context.Context, id, name string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE organizations SET name = $2 WHERE id = $1`, id, name)
	return db.ConflictOnUnique(err, "organization name already taken")
}

// Delete removes the organization. Memberships and org-scoped resources are
// removed by the schema's ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM organizations WHERE id = $1`, id)
	return err
}
