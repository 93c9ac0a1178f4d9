// Package repository provides persistence for notes.
package repository

import (
	"context"

	"orghub/backend/internal/note/domain"
)

// Repository stores notes. Every method takes the org ID and scopes its query
// by it, so a note in another org behaves exactly like a note that does not exist.
type Repository interface {
	GetByIDInOrg(ctx context.Context, orgID, id string) (*domain.Note, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Note, error)
	Create(ctx context.Context, n *domain.Note) error
	Update(ctx context.Context, n *domain.Note) error
	DeleteInOrg(ctx context.Context, orgID, id string) error
}
