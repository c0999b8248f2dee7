// Package common contains shared sentinel errors used across
// the admin auth service.
package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// token lifecycle errors
	ErrorExpired = errors.New("expired")

	// ErrorInvalidCredential covers both unknown and expired session tokens.
	// Callers must not be able to distinguish the two cases.
	ErrorInvalidCredential = errors.New("invalid credential")

	// service specific errors
	ErrorInternal = errors.New("internal error")

	// auth-specific errors
	ErrorInvalidToken = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)
