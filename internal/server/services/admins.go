// Package services contains the credential and token lifecycle logic:
// admin account management, refresh token sessions, and password resets.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/adminauth/internal/common"
	"github.com/funnelforge/adminauth/internal/server/models"
	"github.com/funnelforge/adminauth/internal/server/repositories/repomanager"
)

// AdminService owns the lifecycle of admin accounts. It never hashes
// passwords itself; callers supply already-hashed values, so the choice of
// password-hashing primitive stays outside this service.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewAdminService constructs an AdminService over the given database handle.
func NewAdminService(db *sql.DB, m repomanager.RepositoryManager) *AdminService {
	return &AdminService{db: db, repomanager: m}
}

// Create inserts a new admin account. Every new account is created with
// EmailVerified set and MustResetPassword forced on: the admin has to go
// through a password reset before first normal use. Returns
// common.ErrorConflict when the email is already taken.
func (s *AdminService) Create(ctx context.Context, email string, passwordHash string) (*models.AdminUser, error) {
	user := &models.AdminUser{
		ID:                uuid.NewString(),
		Email:             email,
		PasswordHash:      passwordHash,
		EmailVerified:     true,
		MustResetPassword: true,
	}

	repo := s.repomanager.Admins(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating admin: %v", err)
	}
	return u, nil
}

// FindByEmail returns the admin with the given email, matched exactly as
// stored. Returns common.ErrorNotFound when absent.
func (s *AdminService) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	repo := s.repomanager.Admins(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error searching admin: %v", err)
	}
	return user, nil
}

// FindByID returns the admin with the given id.
// Returns common.ErrorNotFound when absent.
func (s *AdminService) FindByID(ctx context.Context, id string) (*models.AdminUser, error) {
	repo := s.repomanager.Admins(s.db)
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error searching admin: %v", err)
	}
	return user, nil
}

// UpdatePassword stores a new password hash for the admin, clears the
// forced-reset flag and stamps UpdatedAt. Returns common.ErrorNotFound when
// the id does not resolve.
func (s *AdminService) UpdatePassword(ctx context.Context, adminUserID string, newPasswordHash string) error {
	now := time.Now()
	repo := s.repomanager.Admins(s.db)
	if err := repo.UpdatePassword(ctx, adminUserID, newPasswordHash, now); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating password: %v", err)
	}
	return nil
}
