package types

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("requested item not found")
var ErrConflict = errors.New("item already exists or conflict")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrValidation = errors.New("invalid input")

// DomainError carries a client-safe message alongside one of the sentinel kinds above.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func NewValidationError(format string, args ...any) error {
	return &DomainError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(message string) error {
	return &DomainError{Kind: ErrConflict, Message: message}
}

func NewNotFoundError(message string) error {
	return &DomainError{Kind: ErrNotFound, Message: message}
}

func NewAuthError(message string) error {
	return &DomainError{Kind: ErrUnauthenticated, Message: message}
}
