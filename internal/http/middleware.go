package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"optic-ims/internal/auth"
	"optic-ims/internal/domain"
	"optic-ims/internal/service"
)

// currentUserKey is where the authenticated user lives on the gin context.
const currentUserKey = "currentUser"

// AuthMiddleware authenticates each request: extract the bearer token,
// verify it, resolve the user, and require an active account. Deactivation
// is enforced here on every request, not inside the token.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortError(c, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		userID, err := h.tokens.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortError(c, http.StatusUnauthorized, "Token expired.")
				return
			}
			abortError(c, http.StatusUnauthorized, "Token is not valid.")
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				abortError(c, http.StatusUnauthorized, "Token is not valid. User not found.")
				return
			}
			h.logger.WithError(err).Error("auth middleware user lookup failed")
			abortError(c, http.StatusInternalServerError, "Server error during authentication")
			return
		}

		if !user.IsActive {
			abortError(c, http.StatusUnauthorized, "Account is deactivated.")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole gates a route on the resolved user's role. It must run after
// AuthMiddleware; a missing user fails closed.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortError(c, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abortError(c, http.StatusForbidden, "Access denied. Insufficient privileges.")
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
