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

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'Sale',
	is_active INTEGER NOT NULL DEFAULT 1,
	last_login DATETIME NULL,
	reset_token_hash TEXT NOT NULL DEFAULT '',
	reset_token_expiry DATETIME NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email COLLATE NOCASE);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, email, name, password_hash, role, is_active, last_login, reset_token_hash, reset_token_expiry, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		boolToInt(user.IsActive),
		user.LastLogin,
		user.ResetTokenHash,
		user.ResetTokenExpiry,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`WHERE email = ? COLLATE NOCASE`,
		strings.TrimSpace(email),
	)
	return scanUser(row)
}

func (r *UserRepository) GetActiveByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`WHERE role = ? AND is_active = 1 ORDER BY created_at LIMIT 1`,
		string(role),
	)
	return scanUser(row)
}

func (r *UserRepository) GetByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`WHERE role = ? ORDER BY created_at LIMIT 1`,
		string(role),
	)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET email = ?, name = ?, password_hash = ?, role = ?, is_active = ?, last_login = ?, reset_token_hash = ?, reset_token_expiry = ?, updated_at = ?
WHERE id = ?`,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.Name,
		user.PasswordHash,
		string(user.Role),
		boolToInt(user.IsActive),
		user.LastLogin,
		user.ResetTokenHash,
		user.ResetTokenExpiry,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update user: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update user: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

const selectUser = `
SELECT id, email, name, password_hash, role, is_active, last_login, reset_token_hash, reset_token_expiry, created_at, updated_at
FROM users
`

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user     domain.User
		role     string
		isActive int
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&role,
		&isActive,
		&user.LastLogin,
		&user.ResetTokenHash,
		&user.ResetTokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Role = domain.Role(role)
	user.IsActive = isActive != 0
	return &user, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
