package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/funnelforge/adminauth/internal/common"
	"github.com/funnelforge/adminauth/internal/secretx"
	"github.com/funnelforge/adminauth/internal/server/repositories/repomanager"
)

// RefreshTokenTTL is the fixed lifetime of a refresh token. It is not
// configurable per call.
const RefreshTokenTTL = 7 * 24 * time.Hour

// SessionService issues and validates refresh tokens. Only the SHA-256
// digest of a token ever reaches storage; the fast unsalted digest is safe
// here because raw secrets come out of secretx with full random entropy.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewSessionService constructs a SessionService over the given database handle.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager) *SessionService {
	return &SessionService{db: db, repomanager: m}
}

// Issue persists the digest of rawSecret as a refresh token for adminUserID,
// expiring a fixed TTL from now. The caller generates rawSecret (via
// secretx.GenerateSecret) and delivers it to the client out-of-band; the raw
// value is never stored.
func (s *SessionService) Issue(ctx context.Context, adminUserID string, rawSecret string) error {
	now := time.Now()
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Create(ctx, adminUserID, secretx.Digest(rawSecret), now.Add(RefreshTokenTTL)); err != nil {
		return fmt.Errorf("error storing refresh token: %v", err)
	}
	return nil
}

// Validate resolves rawSecret to the owning admin user id. Unknown and
// expired tokens both return common.ErrorInvalidCredential, so a caller
// cannot tell the two apart. A token is expired from the exact expiry
// instant onward.
func (s *SessionService) Validate(ctx context.Context, rawSecret string) (string, error) {
	now := time.Now()

	repo := s.repomanager.RefreshTokens(s.db)
	token, err := repo.FindByHash(ctx, secretx.Digest(rawSecret))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredential
		}
		return "", fmt.Errorf("error searching refresh token: %v", err)
	}

	if !token.ExpiresAt.After(now) {
		return "", common.ErrorInvalidCredential
	}

	return token.AdminUserID, nil
}

// Revoke deletes the stored digest of rawSecret, ending the session early.
// Revoking a token that no longer exists is not an error.
func (s *SessionService) Revoke(ctx context.Context, rawSecret string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Delete(ctx, secretx.Digest(rawSecret)); err != nil {
		return fmt.Errorf("error deleting refresh token: %v", err)
	}
	return nil
}
