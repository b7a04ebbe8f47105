package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optic-ims/internal/domain"
)

func newTestSender(t *testing.T, handler http.HandlerFunc) *ResendSender {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sender := NewResendSender("test-api-key", "Optic IMS <noreply@optic-ims.local>", "https://app.example.com", logger)
	sender.endpoint = srv.URL
	return sender
}

func TestResendSenderSendPasswordReset(t *testing.T) {
	var captured resendMessage
	var authHeader string

	sender := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	})

	user := &domain.User{Email: "alice@example.com", Name: "Alice", Role: domain.RoleSale}
	err := sender.SendPasswordReset(context.Background(), "admin@example.com", user, "plain-token-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-api-key", authHeader)
	assert.Equal(t, []string{"admin@example.com"}, captured.To)
	assert.Equal(t, "Optic IMS <noreply@optic-ims.local>", captured.From)
	assert.Contains(t, captured.Subject, "Password Reset")
	assert.Contains(t, captured.HTML, "plain-token-123")
	assert.Contains(t, captured.HTML, "https://app.example.com/reset-password?token=plain-token-123&email=alice%40example.com")
	assert.Contains(t, captured.HTML, "Alice")
}

func TestResendSenderProviderRejection(t *testing.T) {
	sender := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	})

	user := &domain.User{Email: "alice@example.com", Name: "Alice", Role: domain.RoleSale}
	err := sender.SendPasswordReset(context.Background(), "admin@example.com", user, "token")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}

func TestResendSenderUnreachableProvider(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sender := NewResendSender("key", "from@example.com", "https://app.example.com", logger)
	sender.endpoint = "http://127.0.0.1:1" // nothing listens here

	user := &domain.User{Email: "alice@example.com", Name: "Alice", Role: domain.RoleSale}
	err := sender.SendPasswordReset(context.Background(), "admin@example.com", user, "token")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}
