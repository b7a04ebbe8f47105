package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"optic-ims/internal/auth"
	"optic-ims/internal/domain"
	"optic-ims/internal/mail"
	"optic-ims/internal/repository"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDeactivated indicates a login or reset attempt against a
	// deactivated account.
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrWrongPassword indicates the current password check failed on a
	// password change.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoAdminAvailable indicates no active admin could approve a reset.
	ErrNoAdminAvailable = errors.New("no active administrator available")
	// ErrInvalidResetToken covers every reset failure mode so callers cannot
	// tell which check rejected the attempt.
	ErrInvalidResetToken = errors.New("invalid or expired password reset token")
)

// UserService describes account and credential lifecycle operations.
type UserService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, name string) (*domain.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	AdminChangePassword(ctx context.Context, userID, newPassword string) (*domain.User, error)
	GetSalesUser(ctx context.Context) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}

type userService struct {
	users    repository.UserRepository
	hasher   *auth.PasswordHasher
	mailer   mail.Sender
	resetTTL time.Duration
}

func NewUserService(users repository.UserRepository, hasher *auth.PasswordHasher, mailer mail.Sender, resetTTL time.Duration) UserService {
	if resetTTL <= 0 {
		resetTTL = auth.ResetTokenTTL
	}
	return &userService{
		users:    users,
		hasher:   hasher,
		mailer:   mailer,
		resetTTL: resetTTL,
	}
}

// Login verifies credentials and records the login time. Unknown email and
// wrong password both surface ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Name = name
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// ChangePassword requires the current password before accepting a new one.
func (s *userService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	ok, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongPassword
	}

	return s.setPassword(ctx, user, newPassword)
}

func (s *userService) AdminChangePassword(ctx context.Context, userID, newPassword string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetSalesUser(ctx context.Context) (*domain.User, error) {
	user, err := s.users.GetByRole(ctx, domain.RoleSale)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// RequestPasswordReset issues a reset token and mails it to an active admin
// for approval. An unknown email returns nil so callers cannot probe which
// accounts exist. A delivery failure clears the token state before
// reporting the error.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	if !user.IsActive {
		return ErrAccountDeactivated
	}

	admin, err := s.users.GetActiveByRole(ctx, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoAdminAvailable
		}
		return err
	}

	plain, hash, expiry, err := auth.GenerateResetToken(s.resetTTL)
	if err != nil {
		return err
	}

	user.ResetTokenHash = hash
	user.ResetTokenExpiry = &expiry
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, admin.Email, sanitizeUser(user), plain); err != nil {
		user.ClearResetToken()
		if clearErr := s.users.Update(ctx, user); clearErr != nil {
			return fmt.Errorf("clear reset token after failed delivery: %w", clearErr)
		}
		return fmt.Errorf("%w: %w", mail.ErrDeliveryFailed, err)
	}

	return nil
}

// ResetPassword completes the reset flow. Every failure mode maps to the
// same ErrInvalidResetToken; the token is consumed on success.
func (s *userService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if !auth.VerifyResetToken(user, token) {
		return ErrInvalidResetToken
	}

	user.ClearResetToken()
	return s.setPassword(ctx, user, newPassword)
}

// setPassword re-hashes and saves. This is the only path that writes
// PasswordHash, so plain record updates never double-hash.
func (s *userService) setPassword(ctx context.Context, user *domain.User, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
