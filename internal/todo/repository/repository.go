// Package repository provides persistence for todos.
package repository

import (
	"context"

	"orghub/backend/internal/todo/domain"
)

// Repository stores todos, with every query scoped by org ID.
type Repository interface {
	GetByIDInOrg(ctx context.Context, orgID, id string) (*domain.Todo, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Todo, error)
	Create(ctx context.Context, t *domain.Todo) error
	Update(ctx context.Context, t *domain.Todo) error
	DeleteInOrg(ctx context.Context, orgID, id string) error
}
