// Package refreshtokens declares the persistence contract for refresh token
// digests. Raw bearer secrets never reach this package.
package refreshtokens

import (
	"context"
	"time"

	"github.com/funnelforge/adminauth/internal/server/models"
)

// Repository defines operations for issuing, looking up, and revoking
// refresh tokens.
type Repository interface {
	// Create stores a new token digest for adminUserID expiring at expiresAt.
	Create(ctx context.Context, adminUserID string, tokenHash string, expiresAt time.Time) error

	// FindByHash looks up a refresh token by its digest and returns its
	// metadata. Returns common.ErrorNotFound when the digest is absent.
	FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its digest. Deleting a non-existent
	// token is not an error.
	Delete(ctx context.Context, tokenHash string) error
}
