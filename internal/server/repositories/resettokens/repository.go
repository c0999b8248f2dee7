// Package resettokens declares the persistence contract for single-use
// password reset tokens.
package resettokens

import (
	"context"
	"time"

	"github.com/funnelforge/adminauth/internal/server/models"
)

// Repository defines operations for issuing and consuming reset tokens.
type Repository interface {
	// Create stores a new reset token for adminUserID expiring at expiresAt.
	Create(ctx context.Context, adminUserID string, token string, expiresAt time.Time) error

	// Consume deletes the token and returns its row in a single statement,
	// so concurrent redemption attempts cannot both succeed. Returns
	// common.ErrorNotFound when the token is absent or already consumed.
	Consume(ctx context.Context, token string) (*models.PasswordResetToken, error)
}
