package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/funnelforge/adminauth/internal/common"
	"github.com/funnelforge/adminauth/internal/dbx"
	"github.com/funnelforge/adminauth/internal/server/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new admin user and returns it with DB-assigned timestamps.
func (r *PostgresRepository) Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error) {
	query := `
		INSERT INTO admin_users (id, email, password_hash, email_verified, must_reset_password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.EmailVerified, user.MustResetPassword,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByEmail returns the admin user with the given email, matched exactly as
// stored. No case normalization is applied here; collation is the database's
// concern.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, email_verified, must_reset_password, created_at, updated_at
		FROM admin_users
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the admin user with the given id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, email_verified, must_reset_password, created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// UpdatePassword stores a new password hash, clears must_reset_password and
// stamps updated_at in a single statement, so no partial mutation is
// observable on failure.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string, updatedAt time.Time) error {
	query := `
		UPDATE admin_users
		SET password_hash = $2, must_reset_password = FALSE, updated_at = $3
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&user.EmailVerified, &user.MustResetPassword,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
