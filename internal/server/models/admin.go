package models

import "time"

// AdminUser is an administrative identity of the product.
//
// Email is matched exactly as stored; collation/case policy is owned by the
// database, not by this code.
//
// MustResetPassword is true from creation until the first successful
// password update: every new admin account goes through a reset flow before
// normal use.
type AdminUser struct {
	ID                string
	Email             string
	PasswordHash      string
	EmailVerified     bool
	MustResetPassword bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
