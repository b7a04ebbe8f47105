package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"optic-ims/internal/auth"
	"optic-ims/internal/domain"
	"optic-ims/internal/service"
)

const testSecret = "handler-test-secret"

// stubUserService backs the handler with a fixed set of users.
type stubUserService struct {
	users map[string]*domain.User // keyed by id
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
				return u, nil
			}
			return nil, service.ErrInvalidCredentials
		}
	}
	return nil, service.ErrInvalidCredentials
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

func (s *stubUserService) UpdateProfile(ctx context.Context, id, name string) (*domain.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name = name
	return u, nil
}

func (s *stubUserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	return nil
}

func (s *stubUserService) AdminChangePassword(ctx context.Context, userID, newPassword string) (*domain.User, error) {
	return s.GetByID(ctx, userID)
}

func (s *stubUserService) GetSalesUser(ctx context.Context) (*domain.User, error) {
	for _, u := range s.users {
		if u.Role == domain.RoleSale && u.IsActive {
			return u, nil
		}
	}
	return nil, service.ErrUserNotFound
}

func (s *stubUserService) RequestPasswordReset(ctx context.Context, email string) error {
	return nil
}

func (s *stubUserService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubUserService, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &stubUserService{users: map[string]*domain.User{
		"admin-1": {
			ID: "admin-1", Email: "admin@example.com", Name: "Admin",
			PasswordHash: string(adminHash), Role: domain.RoleAdmin, IsActive: true,
		},
		"sale-1": {
			ID: "sale-1", Email: "sales@example.com", Name: "Sales",
			PasswordHash: string(adminHash), Role: domain.RoleSale, IsActive: true,
		},
		"gone-1": {
			ID: "gone-1", Email: "gone@example.com", Name: "Gone",
			PasswordHash: string(adminHash), Role: domain.RoleSale, IsActive: false,
		},
	}}

	tokens := auth.NewTokenManager(testSecret, time.Hour)
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))

	router := gin.New()
	NewHandler(users, nil, nil, nil, tokens, logger).RegisterRoutes(router)
	return router, users, tokens
}

func doRequest(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OK")
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Access denied. No token provided.", env.Message)
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token is not valid.", decodeEnvelope(t, rec).Message)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: "admin-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/auth/me", signed, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token expired.", decodeEnvelope(t, rec).Message)
}

func TestAuthMiddlewareUnknownUser(t *testing.T) {
	router, _, tokens := newTestRouter(t)

	token, err := tokens.Issue("no-such-user")
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token is not valid. User not found.", decodeEnvelope(t, rec).Message)
}

func TestAuthMiddlewareDeactivatedUser(t *testing.T) {
	router, _, tokens := newTestRouter(t)

	token, err := tokens.Issue("gone-1")
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Account is deactivated.", decodeEnvelope(t, rec).Message)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router, _, tokens := newTestRouter(t)

	token, err := tokens.Issue("admin-1")
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Contains(t, rec.Body.String(), "admin@example.com")
}

func TestRequireRoleForbidsSaleOnAdminRoute(t *testing.T) {
	router, _, tokens := newTestRouter(t)

	token, err := tokens.Issue("sale-1")
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/auth/admin/sales-user", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied. Insufficient privileges.", decodeEnvelope(t, rec).Message)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	router, _, tokens := newTestRouter(t)

	token, err := tokens.Issue("admin-1")
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/auth/admin/sales-user", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sales@example.com")
}

func TestLoginEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "admin-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Login successful", env.Message)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeEnvelope(t, rec).Message)
}

func TestLoginEndpointValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", decodeEnvelope(t, rec).Message)
}

func TestUnknownRoute(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeEnvelope(t, rec).Message)
}

func TestCORSPreflight(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
