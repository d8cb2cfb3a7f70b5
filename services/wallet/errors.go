package wallet

import (
	"errors"
	"fmt"
)

// ErrAlreadySettled signals a settlement request for a wallet whose balance
// is already zeroed. Batch settlement reports it per attendant instead of
// aborting.
var ErrAlreadySettled = errors.New("wallet already settled")

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

// NotFoundError signals an unknown attendant or booking id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
