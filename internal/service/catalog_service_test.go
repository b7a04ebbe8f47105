package service_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optic-ims/internal/repository/sqlite"
	"optic-ims/internal/service"
	"optic-ims/internal/storage"
)

// fakeStorage keeps uploaded objects in memory and records deletions.
type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) UploadImage(ctx context.Context, body io.Reader, opts storage.UploadOptions) (storage.UploadResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return storage.UploadResult{}, err
	}
	s.objects[opts.Key] = data
	return storage.UploadResult{
		Key: opts.Key,
		URL: "https://cdn.example.com/" + opts.Key,
	}, nil
}

func (s *fakeStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) ListObjects(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
	var infos []storage.ObjectInfo
	for key, data := range s.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return infos, nil
}

type catalogFixture struct {
	brands    service.BrandService
	products  service.ProductService
	dashboard service.DashboardService
	store     *fakeStorage
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	brandRepo := sqlite.NewBrandRepository(db)
	productRepo := sqlite.NewProductRepository(db)
	require.NoError(t, brandRepo.Init(ctx))
	require.NoError(t, productRepo.Init(ctx))

	store := newFakeStorage()
	return &catalogFixture{
		brands:    service.NewBrandService(brandRepo, productRepo, store, "test-bucket", "optic-ims"),
		products:  service.NewProductService(productRepo, brandRepo),
		dashboard: service.NewDashboardService(brandRepo, productRepo),
		store:     store,
	}
}

func pngImage() *service.BrandImage {
	return &service.BrandImage{
		Body:        strings.NewReader("fake-png-bytes"),
		ContentType: "image/png",
	}
}

func TestBrandServiceCreate(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	brand, err := fx.brands.Create(ctx, "Ray-Ban", pngImage(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "Ray-Ban", brand.Name)
	assert.True(t, strings.HasPrefix(brand.ImageKey, "optic-ims/brands/"))
	assert.True(t, strings.HasSuffix(brand.ImageKey, ".png"))
	assert.Contains(t, brand.ImageURL, brand.ImageKey)
	assert.Contains(t, fx.store.objects, brand.ImageKey)

	_, err = fx.brands.Create(ctx, "ray-ban", pngImage(), "admin-1")
	assert.ErrorIs(t, err, service.ErrBrandExists)

	_, err = fx.brands.Create(ctx, "Oakley", nil, "admin-1")
	assert.ErrorIs(t, err, service.ErrImageRequired)

	_, err = fx.brands.Create(ctx, "  ", pngImage(), "admin-1")
	assert.Error(t, err)
}

func TestBrandServiceUpdate(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	first, err := fx.brands.Create(ctx, "Oakley", pngImage(), "admin-1")
	require.NoError(t, err)
	second, err := fx.brands.Create(ctx, "Persol", pngImage(), "admin-1")
	require.NoError(t, err)

	// renaming onto an existing brand is rejected
	_, err = fx.brands.Update(ctx, second.ID, "oakley", nil)
	assert.ErrorIs(t, err, service.ErrBrandExists)

	// rename without touching the image
	updated, err := fx.brands.Update(ctx, second.ID, "Persol Eyewear", nil)
	require.NoError(t, err)
	assert.Equal(t, "Persol Eyewear", updated.Name)
	assert.Equal(t, second.ImageKey, updated.ImageKey)

	// replacing the image removes the old object
	oldKey := first.ImageKey
	updated, err = fx.brands.Update(ctx, first.ID, "", pngImage())
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, updated.ImageKey)
	assert.Contains(t, fx.store.deleted, oldKey)
	assert.NotContains(t, fx.store.objects, oldKey)

	_, err = fx.brands.Update(ctx, "missing-id", "Nope", nil)
	assert.ErrorIs(t, err, service.ErrBrandNotFound)
}

func TestBrandServiceDelete(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	brand, err := fx.brands.Create(ctx, "Oakley", pngImage(), "admin-1")
	require.NoError(t, err)
	product, err := fx.products.Create(ctx, brand.ID, "OO9208", 149.99, "admin-1")
	require.NoError(t, err)

	err = fx.brands.Delete(ctx, brand.ID)
	assert.ErrorIs(t, err, service.ErrBrandHasProducts)

	require.NoError(t, fx.products.Delete(ctx, product.ID))
	require.NoError(t, fx.brands.Delete(ctx, brand.ID))
	assert.Contains(t, fx.store.deleted, brand.ImageKey)

	_, err = fx.brands.Get(ctx, brand.ID)
	assert.ErrorIs(t, err, service.ErrBrandNotFound)

	assert.ErrorIs(t, fx.brands.Delete(ctx, brand.ID), service.ErrBrandNotFound)
}

func TestBrandServiceListPagination(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Oakley", "Persol", "Ray-Ban"} {
		_, err := fx.brands.Create(ctx, name, pngImage(), "admin-1")
		require.NoError(t, err)
	}

	brands, page, err := fx.brands.List(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, brands, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)

	brands, page, err = fx.brands.List(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, brands, 1)
	assert.Equal(t, 2, page.Page)

	// out of range values fall back to defaults
	_, page, err = fx.brands.List(ctx, "", 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestProductServiceCreate(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	brand, err := fx.brands.Create(ctx, "Oakley", pngImage(), "admin-1")
	require.NoError(t, err)

	product, err := fx.products.Create(ctx, brand.ID, "OO9208", 149.99, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "Oakley", product.BrandName, "create returns the joined brand name")
	assert.Equal(t, "LKR", product.Currency)

	_, err = fx.products.Create(ctx, brand.ID, "oo9208", 99, "admin-1")
	assert.ErrorIs(t, err, service.ErrProductExists)

	_, err = fx.products.Create(ctx, "missing-brand", "X-1", 10, "admin-1")
	assert.ErrorIs(t, err, service.ErrBrandNotFound)

	_, err = fx.products.Create(ctx, brand.ID, "X-1", 0, "admin-1")
	assert.Error(t, err)

	_, err = fx.products.Create(ctx, brand.ID, "  ", 10, "admin-1")
	assert.Error(t, err)
}

func TestProductServiceUpdate(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	brand, err := fx.brands.Create(ctx, "Oakley", pngImage(), "admin-1")
	require.NoError(t, err)
	_, err = fx.products.Create(ctx, brand.ID, "Alpha", 10, "admin-1")
	require.NoError(t, err)
	second, err := fx.products.Create(ctx, brand.ID, "Bravo", 20, "admin-1")
	require.NoError(t, err)

	// renaming onto an existing model under the same brand is rejected
	model := "alpha"
	_, err = fx.products.Update(ctx, second.ID, service.ProductUpdate{ModelNumber: &model})
	assert.ErrorIs(t, err, service.ErrProductExists)

	price := 25.5
	updated, err := fx.products.Update(ctx, second.ID, service.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 25.5, updated.Price)
	assert.Equal(t, "Bravo", updated.ModelNumber)

	badPrice := -1.0
	_, err = fx.products.Update(ctx, second.ID, service.ProductUpdate{Price: &badPrice})
	assert.Error(t, err)

	badBrand := "missing-brand"
	_, err = fx.products.Update(ctx, second.ID, service.ProductUpdate{BrandID: &badBrand})
	assert.ErrorIs(t, err, service.ErrBrandNotFound)

	_, err = fx.products.Update(ctx, "missing-id", service.ProductUpdate{})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestProductServiceListByBrand(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	oakley, err := fx.brands.Create(ctx, "Oakley", pngImage(), "admin-1")
	require.NoError(t, err)
	rayban, err := fx.brands.Create(ctx, "Ray-Ban", pngImage(), "admin-1")
	require.NoError(t, err)

	_, err = fx.products.Create(ctx, oakley.ID, "Bravo", 20, "admin-1")
	require.NoError(t, err)
	_, err = fx.products.Create(ctx, oakley.ID, "Alpha", 10, "admin-1")
	require.NoError(t, err)
	_, err = fx.products.Create(ctx, rayban.ID, "Charlie", 30, "admin-1")
	require.NoError(t, err)

	products, brand, page, err := fx.products.ListByBrand(ctx, oakley.ID, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, brand)
	assert.Equal(t, "Oakley", brand.Name)
	require.Len(t, products, 2)
	assert.Equal(t, "Alpha", products[0].ModelNumber, "sorted by model number")
	assert.EqualValues(t, 2, page.Total)

	_, _, _, err = fx.products.ListByBrand(ctx, "missing-brand", 1, 10)
	assert.ErrorIs(t, err, service.ErrBrandNotFound)
}

func TestDashboardStats(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	stats, err := fx.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.BrandCount)
	assert.Zero(t, stats.ProductCount)
	assert.Empty(t, stats.RecentProducts)

	brand, err := fx.brands.Create(ctx, "Oakley", pngImage(), "admin-1")
	require.NoError(t, err)
	for _, model := range []string{"A", "B", "C", "D", "E", "F"} {
		_, err := fx.products.Create(ctx, brand.ID, model, 10, "admin-1")
		require.NoError(t, err)
	}

	stats, err = fx.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.BrandCount)
	assert.EqualValues(t, 6, stats.ProductCount)
	assert.Len(t, stats.RecentProducts, 5, "recent list is capped")
}
