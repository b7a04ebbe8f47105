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

const createBrandsTable = `
CREATE TABLE IF NOT EXISTS brands (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	image_key TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_brands_name ON brands (name COLLATE NOCASE);
`

type BrandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) repository.BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBrandsTable); err != nil {
		return fmt.Errorf("create brands table: %w", err)
	}
	return nil
}

func (r *BrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	now := time.Now().UTC()
	brand.CreatedAt = now
	brand.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO brands (id, name, image_key, image_url, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		brand.ID,
		brand.Name,
		brand.ImageKey,
		brand.ImageURL,
		brand.CreatedBy,
		brand.CreatedAt,
		brand.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert brand: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *BrandRepository) Get(ctx context.Context, id string) (*domain.Brand, error) {
	row := r.db.QueryRowContext(ctx, selectBrand+`WHERE id = ?`, id)
	return scanBrand(row)
}

func (r *BrandRepository) GetByName(ctx context.Context, name string) (*domain.Brand, error) {
	row := r.db.QueryRowContext(ctx, selectBrand+`WHERE name = ? COLLATE NOCASE`,
		strings.TrimSpace(name),
	)
	return scanBrand(row)
}

func (r *BrandRepository) List(ctx context.Context, search string, offset, limit int) ([]domain.Brand, error) {
	query := selectBrand
	args := []any{}
	if strings.TrimSpace(search) != "" {
		query += `WHERE name LIKE ? ESCAPE '\' `
		args = append(args, likePattern(search))
	}
	query += `ORDER BY name COLLATE NOCASE LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var brands []domain.Brand
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, *brand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}
	return brands, nil
}

func (r *BrandRepository) Count(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM brands`
	args := []any{}
	if strings.TrimSpace(search) != "" {
		query += ` WHERE name LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count brands: %w", err)
	}
	return count, nil
}

func (r *BrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	brand.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE brands
SET name = ?, image_key = ?, image_url = ?, updated_at = ?
WHERE id = ?`,
		brand.Name,
		brand.ImageKey,
		brand.ImageURL,
		brand.UpdatedAt,
		brand.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update brand: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update brand: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update brand rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update brand: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete brand rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete brand: %w", repository.ErrNotFound)
	}
	return nil
}

const selectBrand = `
SELECT id, name, image_key, image_url, created_by, created_at, updated_at
FROM brands
`

func scanBrand(row interface {
	Scan(dest ...any) error
}) (*domain.Brand, error) {
	var brand domain.Brand
	if err := row.Scan(
		&brand.ID,
		&brand.Name,
		&brand.ImageKey,
		&brand.ImageURL,
		&brand.CreatedBy,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("brand: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan brand: %w", err)
	}
	return &brand, nil
}

// likePattern escapes LIKE metacharacters and wraps the term for substring match.
func likePattern(term string) string {
	term = strings.TrimSpace(term)
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
