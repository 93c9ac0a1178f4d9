package repository

import (
	"context"
	"database/sql"
	"errors"

	"orghub/backend/internal/db"
	"orghub/backend/internal/membership/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a membership repository over the given db or transaction.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

// GetByUserAndOrg returns the membership for the given user and org, or nil if
// not found. A single indexed lookup; callers must not scan loaded membership
// lists to find a role.
func (r *PostgresRepository) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, org_id, role, joined_at
		   FROM memberships WHERE user_id = $1 AND org_id = $2`,
		userID, orgID).Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListMembersByOrg returns all members of the org joined with user identity
// fields, ordered by join time. The credential digest is never selected.
func (r *PostgresRepository) ListMembersByOrg(ctx context.Context, orgID string) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.username, u.email, m.role, u.is_active, m.joined_at
		   FROM memberships m
		   JOIN users u ON u.id = m.user_id
		  WHERE m.org_id = $1
		  ORDER BY m.joined_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Member
	for rows.Next() {
		var mem domain.Member
		if err := rows.Scan(&mem.UserID, &mem.Username, &mem.Email, &mem.Role, &mem.IsActive, &mem.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, &mem)
	}
	return out, rows.Err()
}

// ListOrgsByUser returns the organizations the user belongs to, with the
// user's role in each, ordered by join time.
func (r *PostgresRepository) ListOrgsByUser(ctx context.Context, userID string) ([]*domain.OrgRole, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.name, m.role, m.joined_at, o.created_at
		   FROM memberships m
		   JOIN organizations o ON o.id = m.org_id
		  WHERE m.user_id = $1
		  ORDER BY m.joined_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.OrgRole
	for rows.Next() {
		var or domain.OrgRole
		if err := rows.Scan(&or.OrgID, &or.OrgName, &or.Role, &or.JoinedAt, &or.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &or)
	}
	return out, rows.Err()
}

// Create persists the membership. The schema's unique (user_id, org_id)
// constraint backs the one-membership-per-pair invariant; the lifecycle
// service still looks up first to return a clean conflict, and a constraint
// hit from a concurrent insert maps to the same Conflict.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (id, user_id, org_id, role, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.OrgID, m.Role, m.JoinedAt)
	return db.ConflictOnUnique(err, "user is already a member of this organization")
}

// DeleteByUserAndOrg removes the membership for the given pair.
func (r *PostgresRepository) DeleteByUserAndOrg(ctx context.Context, userID, orgID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE user_id = $1 AND org_id = $2`, userID, orgID)
	return err
}

// UpdateRole sets the role on the membership for the given pair and returns
// the updated row, or nil if the pair has no membership.
func (r *PostgresRepository) UpdateRole(ctx context.Context, userID, orgID string, role domain.Role) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.QueryRowContext(ctx,
		`UPDATE memberships SET role = $3
		  WHERE user_id = $1 AND org_id = $2
		  RETURNING id, user_id, org_id, role, joined_at`,
		userID, orgID, role).Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// CountAdminsByOrg returns the number of ADMIN memberships held by active
// users in the org. A single aggregate query; the last-admin check depends on
// it being evaluated in the same transaction as the mutation.
func (r *PostgresRepository) CountAdminsByOrg(ctx context.Context, orgID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM memberships m
		   JOIN users u ON u.id = m.user_id
		  WHERE m.org_id = $1 AND m.role = $2 AND u.is_active`,
		orgID, domain.RoleAdmin).Scan(&n)
	return n, err
}

// CountByUser returns the number of memberships the user holds across all organizations.
func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM memberships WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
