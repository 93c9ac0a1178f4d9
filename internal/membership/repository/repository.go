package repository

import (
	"context"

	"orghub/backend/internal/membership/domain"
)

// Repository defines persistence for memberships. Only the membership
// lifecycle service may call the mutating methods; every other component
// reads memberships through the lookup methods.
type Repository interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	ListMembersByOrg(ctx context.Context, orgID string) ([]*domain.Member, error)
	ListOrgsByUser(ctx context.Context, userID string) ([]*domain.OrgRole, error)
	Create(ctx context.Context, m *domain.Membership) error
	DeleteByUserAndOrg(ctx context.Context, userID, orgID string) error
	UpdateRole(ctx context.Context, userID, orgID string, role domain.Role) (*domain.Membership, error)
	CountAdminsByOrg(ctx context.Context, orgID string) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
