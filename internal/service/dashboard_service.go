package service

import (
	"context"

	"optic-ims/internal/domain"
	"optic-ims/internal/repository"
)

// DashboardStats aggregates catalog counts and recent activity.
type DashboardStats struct {
	BrandCount     int64
	ProductCount   int64
	RecentProducts []domain.Product
}

// DashboardService computes dashboard aggregates.
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	brands   repository.BrandRepository
	products repository.ProductRepository
}

func NewDashboardService(brands repository.BrandRepository, products repository.ProductRepository) DashboardService {
	return &dashboardService{
		brands:   brands,
		products: products,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	brandCount, err := s.brands.Count(ctx, "")
	if err != nil {
		return nil, err
	}
	productCount, err := s.products.Count(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	recent, err := s.products.ListRecent(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		BrandCount:     brandCount,
		ProductCount:   productCount,
		RecentProducts: recent,
	}, nil
}
