// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("email is already registered")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors. More specific reasons wrap ErrValidation.
	ErrValidation      = errors.New("validation error")
	ErrNothingToUpdate = fmt.Errorf("%w: nothing to update", ErrValidation)

	// Login error. Unknown email and wrong password share it on purpose.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// Auth errors (malformed, expired or badly signed token).
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Validationf returns an error that matches ErrValidation and carries a
// human readable reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
