package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"optic-ims/internal/domain"
)

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = 15 * time.Minute

// GenerateResetToken creates a single-use password reset token. The plain
// token is returned for out-of-band delivery; only the digest and expiry
// are meant to be persisted on the user record.
func GenerateResetToken(ttl time.Duration) (plain, hash string, expiry time.Time, err error) {
	if ttl <= 0 {
		ttl = ResetTokenTTL
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("generate reset token: %w", err)
	}
	plain = hex.EncodeToString(buf)
	return plain, HashResetToken(plain), time.Now().Add(ttl), nil
}

// HashResetToken computes the digest stored in place of the plain token.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// VerifyResetToken checks a presented token against the state stored on the
// user. Fails closed when no token is pending or the expiry has passed.
func VerifyResetToken(user *domain.User, presented string) bool {
	if user == nil || user.ResetTokenHash == "" || user.ResetTokenExpiry == nil {
		return false
	}
	if !time.Now().Before(*user.ResetTokenExpiry) {
		return false
	}
	digest := HashResetToken(presented)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(user.ResetTokenHash)) == 1
}
