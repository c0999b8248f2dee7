// Package resettokens provides a PostgreSQL-backed repository for password
// reset tokens.
package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/funnelforge/adminauth/internal/common"
	"github.com/funnelforge/adminauth/internal/dbx"
	"github.com/funnelforge/adminauth/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new reset token for adminUserID.
func (r *PostgresRepository) Create(ctx context.Context, adminUserID string, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (token, admin_user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, token, adminUserID, expiresAt); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// Consume deletes the token and returns its row. The single DELETE ...
// RETURNING statement makes consumption atomic: only one of several
// concurrent redemption attempts can observe the row.
func (r *PostgresRepository) Consume(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	query := `
		DELETE FROM password_reset_tokens
		WHERE token = $1
		RETURNING token, admin_user_id, expires_at
	`
	resetToken := &models.PasswordResetToken{}
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&resetToken.Token, &resetToken.AdminUserID, &resetToken.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return resetToken, nil
}
