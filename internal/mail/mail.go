package mail

import (
	"context"
	"errors"

	"optic-ims/internal/domain"
)

// ErrDeliveryFailed indicates the provider rejected or failed to send a
// message. Callers treat this as fail-closed and roll back any state tied
// to the delivery.
var ErrDeliveryFailed = errors.New("mail delivery failed")

// Sender delivers notification mail. Implementations only report
// success or failure; delivery mechanics are their own concern.
type Sender interface {
	SendPasswordReset(ctx context.Context, adminEmail string, user *domain.User, plainToken string) error
}
