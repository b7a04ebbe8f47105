package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"optic-ims/internal/domain"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendSender delivers mail through the Resend REST API.
type ResendSender struct {
	apiKey      string
	from        string
	frontendURL string
	endpoint    string
	httpClient  *http.Client
	logger      *logrus.Logger
}

func NewResendSender(apiKey, from, frontendURL string, logger *logrus.Logger) *ResendSender {
	return &ResendSender{
		apiKey:      apiKey,
		from:        from,
		frontendURL: frontendURL,
		endpoint:    resendEndpoint,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
}

type resendMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendPasswordReset mails the reset link to the administrator approving the
// request. The plain token only ever travels through this message.
func (s *ResendSender) SendPasswordReset(ctx context.Context, adminEmail string, user *domain.User, plainToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.frontendURL, url.QueryEscape(plainToken), url.QueryEscape(user.Email))

	msg := resendMessage{
		From:    s.from,
		To:      []string{adminEmail},
		Subject: "Password Reset Request - Optic IMS",
		HTML:    renderResetBody(user, resetURL),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal reset mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build reset mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WithError(err).Warn("password reset mail request failed")
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Warn("password reset mail rejected")
		return fmt.Errorf("%w: provider returned %d", ErrDeliveryFailed, resp.StatusCode)
	}

	s.logger.WithField("to", adminEmail).Info("password reset mail sent")
	return nil
}

func renderResetBody(user *domain.User, resetURL string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #2c5aa0;">Optic IMS</h1>
  <h2>Password Reset Request</h2>
  <p>A password reset has been requested for the following user:</p>
  <p><strong>Name:</strong> %s<br>
     <strong>Email:</strong> %s<br>
     <strong>Role:</strong> %s</p>
  <p>As the administrator, you can reset this user's password using the link below:</p>
  <p><a href="%s" style="background-color: #2c5aa0; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
  <p style="color: #999; font-size: 14px;">This link expires in 15 minutes. If you did not expect this request, ignore this email.</p>
  <p style="color: #999; font-size: 14px; word-break: break-all;">%s</p>
</div>`,
		user.Name, user.Email, user.Role, resetURL, resetURL)
}

var _ Sender = (*ResendSender)(nil)
