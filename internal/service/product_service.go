package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"optic-ims/internal/domain"
	"optic-ims/internal/repository"
)

var (
	// ErrProductExists indicates the brand+model pair is already taken.
	ErrProductExists = errors.New("product with this brand and model number already exists")
	// ErrProductNotFound indicates the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")
)

// ProductListOptions narrows and orders product listings.
type ProductListOptions struct {
	Search   string
	BrandID  string
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

// ProductUpdate carries optional field changes; nil means leave unchanged.
type ProductUpdate struct {
	BrandID     *string
	ModelNumber *string
	Price       *float64
}

// ProductService coordinates product catalog operations.
type ProductService interface {
	List(ctx context.Context, opts ProductListOptions) ([]domain.Product, Pagination, error)
	ListByBrand(ctx context.Context, brandID string, page, limit int) ([]domain.Product, *domain.Brand, Pagination, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, brandID, modelNumber string, price float64, createdBy string) (*domain.Product, error)
	Update(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	products repository.ProductRepository
	brands   repository.BrandRepository
}

func NewProductService(products repository.ProductRepository, brands repository.BrandRepository) ProductService {
	return &productService{
		products: products,
		brands:   brands,
	}
}

func (s *productService) List(ctx context.Context, opts ProductListOptions) ([]domain.Product, Pagination, error) {
	page, limit := normalizePage(opts.Page, opts.Limit)
	filter := repository.ProductFilter{
		Search:  opts.Search,
		BrandID: opts.BrandID,
	}
	sort := repository.ProductSort{
		Column:     opts.SortBy,
		Descending: opts.SortDesc,
	}

	products, err := s.products.List(ctx, filter, sort, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	return products, paginate(page, limit, total), nil
}

func (s *productService) ListByBrand(ctx context.Context, brandID string, page, limit int) ([]domain.Product, *domain.Brand, Pagination, error) {
	brand, err := s.brands.Get(ctx, brandID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, Pagination{}, ErrBrandNotFound
		}
		return nil, nil, Pagination{}, err
	}

	page, limit = normalizePage(page, limit)
	filter := repository.ProductFilter{BrandID: brandID}
	sort := repository.ProductSort{Column: "modelNumber"}

	products, err := s.products.List(ctx, filter, sort, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, Pagination{}, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, nil, Pagination{}, err
	}
	return products, brand, paginate(page, limit, total), nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, brandID, modelNumber string, price float64, createdBy string) (*domain.Product, error) {
	modelNumber = strings.TrimSpace(modelNumber)
	if modelNumber == "" {
		return nil, errors.New("model number is required")
	}
	if price <= 0 {
		return nil, errors.New("price must be greater than 0")
	}

	if _, err := s.brands.Get(ctx, brandID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}

	if _, err := s.products.GetByBrandAndModel(ctx, brandID, modelNumber); err == nil {
		return nil, ErrProductExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	product := &domain.Product{
		ID:          uuid.NewString(),
		BrandID:     brandID,
		ModelNumber: modelNumber,
		Price:       price,
		Currency:    "LKR",
		CreatedBy:   createdBy,
	}
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProductExists
		}
		return nil, err
	}

	// re-read to pick up the brand join columns
	return s.Get(ctx, product.ID)
}

func (s *productService) Update(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	brandID := product.BrandID
	if update.BrandID != nil && *update.BrandID != "" {
		brandID = *update.BrandID
	}
	modelNumber := product.ModelNumber
	if update.ModelNumber != nil && strings.TrimSpace(*update.ModelNumber) != "" {
		modelNumber = strings.TrimSpace(*update.ModelNumber)
	}

	if brandID != product.BrandID {
		if _, err := s.brands.Get(ctx, brandID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrBrandNotFound
			}
			return nil, err
		}
	}

	if brandID != product.BrandID || !strings.EqualFold(modelNumber, product.ModelNumber) {
		if existing, err := s.products.GetByBrandAndModel(ctx, brandID, modelNumber); err == nil && existing.ID != id {
			return nil, ErrProductExists
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	product.BrandID = brandID
	product.ModelNumber = modelNumber
	if update.Price != nil {
		if *update.Price <= 0 {
			return nil, errors.New("price must be greater than 0")
		}
		product.Price = *update.Price
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProductExists
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if _, err := s.products.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.products.Delete(ctx, id)
}
