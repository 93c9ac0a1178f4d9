package repository

import (
	"context"

	"orghub/backend/internal/organization/domain"
)

// Repository defines persistence for organizations.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Org, error)
	GetByName(ctx context.Context, name string) (*domain.Org, error)
	Create(ctx context.Context, o *domain.Org) error
	UpdateName(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}
