package domain

import "time"

// Role is the coarse permission class assigned to a user.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleSale  Role = "Sale"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSale
}

// User represents a staff account. PasswordHash is always a bcrypt hash,
// never the plaintext. ResetTokenHash and ResetTokenExpiry are either both
// set or both empty.
type User struct {
	ID               string
	Email            string
	Name             string
	PasswordHash     string
	Role             Role
	IsActive         bool
	LastLogin        *time.Time
	ResetTokenHash   string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ClearResetToken removes any pending password reset state.
func (u *User) ClearResetToken() {
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = nil
}
