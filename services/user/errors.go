package user

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials rejects a sign-in with a wrong email or password.
// Deliberately does not say which.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError rejects a request before any mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
