package models

import "time"

// RefreshToken is a long-lived bearer credential. Only the SHA-256 digest of
// the secret is persisted; the raw secret travels to the client once and is
// never stored.
type RefreshToken struct {
	TokenHash   string
	AdminUserID string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// PasswordResetToken is a single-use, time-boxed token mailed to an admin.
// It is consumed atomically with the password update it authorizes.
type PasswordResetToken struct {
	Token       string
	AdminUserID string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
