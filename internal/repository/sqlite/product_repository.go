package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"optic-ims/internal/domain"
	"optic-ims/internal/repository"
)

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	brand_id TEXT NOT NULL REFERENCES brands(id),
	model_number TEXT NOT NULL,
	price REAL NOT NULL,
	currency TEXT NOT NULL DEFAULT 'LKR',
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_brand_model ON products (brand_id, model_number COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_products_brand ON products (brand_id);
`

// sortColumns maps caller-supplied sort keys to real columns. Anything
// else sorts by created_at.
var sortColumns = map[string]string{
	"createdAt":   "p.created_at",
	"modelNumber": "p.model_number",
	"price":       "p.price",
}

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProductsTable); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Currency == "" {
		product.Currency = "LKR"
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO products (id, brand_id, model_number, price, currency, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.BrandID,
		product.ModelNumber,
		product.Price,
		product.Currency,
		product.CreatedBy,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert product: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, selectProduct+`WHERE p.id = ?`, id)
	return scanProduct(row)
}

func (r *ProductRepository) GetByBrandAndModel(ctx context.Context, brandID, modelNumber string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, selectProduct+`WHERE p.brand_id = ? AND p.model_number = ? COLLATE NOCASE`,
		brandID,
		strings.TrimSpace(modelNumber),
	)
	return scanProduct(row)
}

func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter, sort repository.ProductSort, offset, limit int) ([]domain.Product, error) {
	query := selectProduct
	where, args := productFilterClause(filter)
	query += where

	column, ok := sortColumns[sort.Column]
	if !ok {
		column = "p.created_at"
	}
	direction := "ASC"
	if sort.Descending {
		direction = "DESC"
	}
	query += fmt.Sprintf("ORDER BY %s %s LIMIT ? OFFSET ?", column, direction)
	args = append(args, limit, offset)

	return r.queryProducts(ctx, query, args...)
}

func (r *ProductRepository) Count(ctx context.Context, filter repository.ProductFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM products p `
	where, args := productFilterClause(filter)
	query += where

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func (r *ProductRepository) ListRecent(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.queryProducts(ctx, selectProduct+`ORDER BY p.created_at DESC LIMIT ?`, limit)
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE products
SET brand_id = ?, model_number = ?, price = ?, currency = ?, updated_at = ?
WHERE id = ?`,
		product.BrandID,
		product.ModelNumber,
		product.Price,
		product.Currency,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update product: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update product: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete product: %w", repository.ErrNotFound)
	}
	return nil
}

const selectProduct = `
SELECT p.id, p.brand_id, p.model_number, p.price, p.currency, p.created_by, p.created_at, p.updated_at, b.name, b.image_url
FROM products p
JOIN brands b ON b.id = p.brand_id
`

func productFilterClause(filter repository.ProductFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if strings.TrimSpace(filter.Search) != "" {
		clauses = append(clauses, `p.model_number LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Search))
	}
	if filter.BrandID != "" {
		clauses = append(clauses, `p.brand_id = ?`)
		args = append(args, filter.BrandID)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND ") + " ", args
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func scanProduct(row interface {
	Scan(dest ...any) error
}) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.BrandID,
		&product.ModelNumber,
		&product.Price,
		&product.Currency,
		&product.CreatedBy,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.BrandName,
		&product.BrandImageURL,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &product, nil
}
