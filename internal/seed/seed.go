package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"optic-ims/internal/auth"
	"optic-ims/internal/domain"
	"optic-ims/internal/repository"
)

type defaultUser struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

var defaultUsers = []defaultUser{
	{Name: "System Administrator", Email: "admin@optic-ims.local", Password: "admin@123", Role: domain.RoleAdmin},
	{Name: "Sales Manager", Email: "sales@optic-ims.local", Password: "sales@123", Role: domain.RoleSale},
}

// EnsureDefaultUsers creates the default admin and sales accounts when they
// are missing. Existing users are never touched or deleted, so re-running
// the seed against a live store is safe.
func EnsureDefaultUsers(ctx context.Context, users repository.UserRepository, hasher *auth.PasswordHasher, logger *logrus.Logger) error {
	for _, candidate := range defaultUsers {
		_, err := users.GetByEmail(ctx, candidate.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("check seed user %s: %w", candidate.Email, err)
		}

		hash, err := hasher.Hash(candidate.Password)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		user := &domain.User{
			ID:           uuid.NewString(),
			Email:        candidate.Email,
			Name:         candidate.Name,
			PasswordHash: hash,
			Role:         candidate.Role,
			IsActive:     true,
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("create seed user %s: %w", candidate.Email, err)
		}
		logger.Infof("seeded default %s user %s", candidate.Role, candidate.Email)
	}
	return nil
}
