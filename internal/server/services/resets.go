package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/funnelforge/adminauth/internal/common"
	"github.com/funnelforge/adminauth/internal/dbx"
	"github.com/funnelforge/adminauth/internal/secretx"
	"github.com/funnelforge/adminauth/internal/server/repositories/repomanager"
)

// ResetTokenTTL is the fixed lifetime of a password reset token. It is not
// configurable per call.
const ResetTokenTTL = time.Hour

// resetSecretBytes is the entropy of a reset token before hex encoding.
const resetSecretBytes = 32

// ResetService issues single-use, time-boxed password reset tokens and
// redeems them. Redemption consumes the token and updates the password in
// one transaction, so a token can never authorize two password changes.
type ResetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewResetService constructs a ResetService over the given database handle.
func NewResetService(db *sql.DB, m repomanager.RepositoryManager) *ResetService {
	return &ResetService{db: db, repomanager: m}
}

// Request creates a reset token for adminUserID and returns the plaintext
// for out-of-band delivery. The caller must not log or otherwise leak the
// returned value. Returns common.ErrorNotFound when the admin does not exist.
func (s *ResetService) Request(ctx context.Context, adminUserID string) (string, error) {
	now := time.Now()

	if _, err := s.repomanager.Admins(s.db).GetByID(ctx, adminUserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error searching admin: %v", err)
	}

	token, err := secretx.GenerateSecret(resetSecretBytes)
	if err != nil {
		return "", common.ErrorInternal
	}

	repo := s.repomanager.ResetTokens(s.db)
	if err := repo.Create(ctx, adminUserID, token, now.Add(ResetTokenTTL)); err != nil {
		return "", fmt.Errorf("error storing reset token: %v", err)
	}

	return token, nil
}

// Redeem consumes the token and updates the admin's password hash in a
// single transaction. The consumption and the update commit or roll back
// together: a failed update leaves the token unconsumed and the admin row
// untouched, and a consumed token cannot be redeemed again.
//
// Returns common.ErrorNotFound for an unknown or already-consumed token and
// common.ErrorExpired for one past its TTL. A token is expired from the
// exact expiry instant onward.
func (s *ResetService) Redeem(ctx context.Context, token string, newPasswordHash string) error {
	now := time.Now()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		resetToken, err := s.repomanager.ResetTokens(tx).Consume(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error consuming reset token: %v", err)
		}

		if !resetToken.ExpiresAt.After(now) {
			return common.ErrorExpired
		}

		if err := s.repomanager.Admins(tx).UpdatePassword(ctx, resetToken.AdminUserID, newPasswordHash, now); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error updating password: %v", err)
		}

		return nil
	})
}
