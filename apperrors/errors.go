package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain. Controllers map these to HTTP statuses;
// anything not in this taxonomy is treated as an unexpected storage failure.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrThreadNotFound   = errors.New("thread not found")
	ErrPostNotFound     = errors.New("post not found")

	// ErrUnauthorized means the caller is not the author of the resource.
	ErrUnauthorized = errors.New("not the author of this resource")

	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")

	// ErrInvalidCredentials covers both unknown-user and wrong-password login
	// failures so callers cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports an input that fails field constraints. It is a
// user-visible outcome, not a system error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrThreadNotFound) ||
		errors.Is(err, ErrPostNotFound)
}
