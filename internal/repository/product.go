package repository

import (
	"context"

	"optic-ims/internal/domain"
)

// ProductFilter narrows product listings. Search matches the model number
// case-insensitively; BrandID restricts to one brand.
type ProductFilter struct {
	Search  string
	BrandID string
}

// ProductSort orders product listings. Column must be one of the allowed
// sortable columns; the sqlite implementation falls back to created_at.
type ProductSort struct {
	Column     string
	Descending bool
}

// ProductRepository exposes persistence operations for catalog products.
// Listings join brand name and image for response rendering.
type ProductRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, product *domain.Product) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetByBrandAndModel(ctx context.Context, brandID, modelNumber string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter, sort ProductSort, offset, limit int) ([]domain.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}
