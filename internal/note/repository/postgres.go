package repository

import (
	"context"
	"database/sql"
	"errors"

	"orghub/backend/internal/db"
	"orghub/backend/internal/note/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a note repository over the given db or transaction.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

const noteColumns = `id, org_id, created_by, title, body, created_at, updated_at`

func scanNote(row *sql.Row) (*domain.Note, error) {
	var n domain.Note
	err := row.Scan(&n.ID, &n.OrgID, &n.CreatedBy, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// GetByIDInOrg returns the note for id inside orgID, or nil if no such note
// exists in that org. A matching id in a different org is nil here as well.
func (r *PostgresRepository) GetByIDInOrg(ctx context.Context, orgID, id string) (*domain.Note, error) {
	return scanNote(r.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE org_id = $1 AND id = $2`, orgID, id))
}

// ListByOrg returns the org's notes, newest first.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.OrgID, &n.CreatedBy, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

// Create persists the note.
func (r *PostgresRepository) Create(ctx context.Context, n *domain.Note) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, org_id, created_by, title, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.OrgID, n.CreatedBy, n.Title, n.Body, n.CreatedAt, n.UpdatedAt)
	return err
}

// Update rewrites title and body. The WHERE clause keeps the write org-scoped.
func (r *PostgresRepository) Update(ctx context.Context, n *domain.Note) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notes SET title = $3, body = $4, updated_at = $5
		 WHERE org_id = $1 AND id = $2`,
		n.OrgID, n.ID, n.Title, n.Body, n.UpdatedAt)
	return err
}

// DeleteInOrg removes the note if it belongs to orgID.
func (r *PostgresRepository) DeleteInOrg(ctx context.Context, orgID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM notes WHERE org_id = $1 AND id = $2`, orgID, id)
	return err
}
