// Package admins declares the persistence contract for admin user records.
package admins

import (
	"context"
	"time"

	"github.com/funnelforge/adminauth/internal/server/models"
)

// Repository defines operations over persisted admin users.
type Repository interface {
	// Create inserts a new admin user. Returns common.ErrorConflict when the
	// email is already taken.
	Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error)

	// GetByEmail looks up an admin by exact email match.
	// Returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)

	// GetByID looks up an admin by id.
	// Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.AdminUser, error)

	// UpdatePassword sets a new password hash, clears the forced-reset flag
	// and stamps updated_at. Returns common.ErrorNotFound when the id does
	// not resolve.
	UpdatePassword(ctx context.Context, id string, passwordHash string, updatedAt time.Time) error
}
