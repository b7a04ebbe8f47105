package repository

import (
	"context"

	"optic-ims/internal/domain"
)

// BrandRepository exposes persistence operations for catalog brands.
type BrandRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, brand *domain.Brand) error
	Get(ctx context.Context, id string) (*domain.Brand, error)
	GetByName(ctx context.Context, name string) (*domain.Brand, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Brand, error)
	Count(ctx context.Context, search string) (int64, error)
	Update(ctx context.Context, brand *domain.Brand) error
	Delete(ctx context.Context, id string) error
}
