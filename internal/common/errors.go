// Package common defines shared constants and sentinel errors used across
// the wallet service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors. ErrNotFound is returned both when a record
	// does not exist and when it exists but belongs to another user, so a
	// caller cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// Signup conflicts (case-insensitive comparison).
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already in use")

	// Authentication errors.
	ErrAuthenticationFailed   = errors.New("invalid username/email or password")
	ErrAuthenticationRequired = errors.New("authentication required")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Validation / internal flow control.
	ErrValidation = errors.New("validation error")
	ErrInternal   = errors.New("internal error")
)
