package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"optic-ims/internal/domain"
	"optic-ims/internal/repository"
	"optic-ims/internal/storage"
)

var (
	// ErrBrandExists indicates a brand with the same name already exists.
	ErrBrandExists = errors.New("brand with this name already exists")
	// ErrBrandNotFound indicates the referenced brand does not exist.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrBrandHasProducts blocks deleting a brand still referenced by products.
	ErrBrandHasProducts = errors.New("brand has associated products")
	// ErrImageRequired indicates a brand create without an image.
	ErrImageRequired = errors.New("brand image is required")
)

// BrandImage carries an uploaded image stream and its media type.
type BrandImage struct {
	Body        io.Reader
	ContentType string
}

// Pagination describes a page of a larger listing.
type Pagination struct {
	Page  int
	Limit int
	Total int64
	Pages int
}

// BrandService coordinates brand catalog operations including image storage.
type BrandService interface {
	List(ctx context.Context, search string, page, limit int) ([]domain.Brand, Pagination, error)
	Get(ctx context.Context, id string) (*domain.Brand, error)
	Create(ctx context.Context, name string, image *BrandImage, createdBy string) (*domain.Brand, error)
	Update(ctx context.Context, id, name string, image *BrandImage) (*domain.Brand, error)
	Delete(ctx context.Context, id string) error
}

type brandService struct {
	brands    repository.BrandRepository
	products  repository.ProductRepository
	storage   storage.Service
	bucket    string
	keyPrefix string
}

func NewBrandService(brands repository.BrandRepository, products repository.ProductRepository, store storage.Service, bucket, keyPrefix string) BrandService {
	return &brandService{
		brands:    brands,
		products:  products,
		storage:   store,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

func (s *brandService) List(ctx context.Context, search string, page, limit int) ([]domain.Brand, Pagination, error) {
	page, limit = normalizePage(page, limit)

	brands, err := s.brands.List(ctx, search, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.brands.Count(ctx, search)
	if err != nil {
		return nil, Pagination{}, err
	}
	return brands, paginate(page, limit, total), nil
}

func (s *brandService) Get(ctx context.Context, id string) (*domain.Brand, error) {
	brand, err := s.brands.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}
	return brand, nil
}

func (s *brandService) Create(ctx context.Context, name string, image *BrandImage, createdBy string) (*domain.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("brand name is required")
	}
	if image == nil || image.Body == nil {
		return nil, ErrImageRequired
	}

	if _, err := s.brands.GetByName(ctx, name); err == nil {
		return nil, ErrBrandExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	result, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	brand := &domain.Brand{
		ID:        uuid.NewString(),
		Name:      name,
		ImageKey:  result.Key,
		ImageURL:  result.URL,
		CreatedBy: createdBy,
	}
	if err := s.brands.Create(ctx, brand); err != nil {
		// orphaned object cleanup; creation error wins
		_ = s.storage.DeleteObject(ctx, s.bucket, result.Key)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBrandExists
		}
		return nil, err
	}
	return brand, nil
}

func (s *brandService) Update(ctx context.Context, id, name string, image *BrandImage) (*domain.Brand, error) {
	brand, err := s.brands.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name != "" && !strings.EqualFold(name, brand.Name) {
		if existing, err := s.brands.GetByName(ctx, name); err == nil && existing.ID != id {
			return nil, ErrBrandExists
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if name != "" {
		brand.Name = name
	}

	oldKey := ""
	if image != nil && image.Body != nil {
		result, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		oldKey = brand.ImageKey
		brand.ImageKey = result.Key
		brand.ImageURL = result.URL
	}

	if err := s.brands.Update(ctx, brand); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBrandExists
		}
		return nil, err
	}

	if oldKey != "" {
		_ = s.storage.DeleteObject(ctx, s.bucket, oldKey)
	}
	return brand, nil
}

func (s *brandService) Delete(ctx context.Context, id string) error {
	brand, err := s.brands.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBrandNotFound
		}
		return err
	}

	count, err := s.products.Count(ctx, repository.ProductFilter{BrandID: id})
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d products", ErrBrandHasProducts, count)
	}

	if brand.ImageKey != "" {
		_ = s.storage.DeleteObject(ctx, s.bucket, brand.ImageKey)
	}
	return s.brands.Delete(ctx, id)
}

func (s *brandService) uploadImage(ctx context.Context, image *BrandImage) (storage.UploadResult, error) {
	key := fmt.Sprintf("%s/brands/%s%s", s.keyPrefix, uuid.NewString(), imageExtension(image.ContentType))
	result, err := s.storage.UploadImage(ctx, image.Body, storage.UploadOptions{
		Bucket:      s.bucket,
		Key:         key,
		ContentType: image.ContentType,
	})
	if err != nil {
		return storage.UploadResult{}, fmt.Errorf("upload brand image: %w", err)
	}
	return result, nil
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func paginate(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
