package repository

import (
	"context"

	"optic-ims/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// GetByEmail matches case-insensitively.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetActiveByRole(ctx context.Context, role domain.Role) (*domain.User, error)
	GetByRole(ctx context.Context, role domain.Role) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int64, error)
}
