package repository

import (
	"context"
	"database/sql"
	"errors"

	"orghub/backend/internal/db"
	"orghub/backend/internal/todo/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a todo repository over the given db or transaction.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

const todoColumns = `id, org_id, created_by, title, body, completed, created_at, updated_at`

func scanTodo(row *sql.Row) (*domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(&t.ID, &t.OrgID, &t.CreatedBy, &t.Title, &t.Body, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// GetByIDInOrg returns the todo for id inside orgID, or nil if no such todo
// exists in that org.
func (r *PostgresRepository) GetByIDInOrg(ctx context.Context, orgID, id string) (*domain.Todo, error) {
	return scanTodo(r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE org_id = $1 AND id = $2`, orgID, id))
}

// ListByOrg returns the org's todos, newest first.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*domain.Todo
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.OrgID, &t.CreatedBy, &t.Title, &t.Body, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, &t)
	}
	return todos, rows.Err()
}

// Create persists the todo.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, org_id, created_by, title, body, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.OrgID, t.CreatedBy, t.Title, t.Body, t.Completed, t.CreatedAt, t.UpdatedAt)
	return err
}

// Update rewrites the mutable fields, org-scoped.
func (r *PostgresRepository) Update(ctx context.Context, t *domain.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = $3, body = $4, completed = $5, updated_at = $6
		 WHERE org_id = $1 AND id = $2`,
		t.OrgID, t.ID, t.Title, t.Body, t.Completed, t.UpdatedAt)
	return err
}

// DeleteInOrg removes the todo if it belongs to orgID.
func (r *PostgresRepository) DeleteInOrg(ctx context.Context, orgID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE org_id = $1 AND id = $2`, orgID, id)
	return err
}
