package service

import (
	"errors"
	"fmt"
	"log"

	"sanogestion/internal/repository"
)

// Error taxonomy shared by every service. Handlers map these onto
// distinct responses and never conflate them.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports a rejected input. Nothing was written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps a filesystem failure that aborted a mutation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// notFound translates a missing-row error from the repositories.
func notFound(err error, what string, id uint) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}

func accessDenied(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrAccessDenied)
}

// logStorage reports a cleanup failure that happens after commit and can no
// longer fail the request.
func logStorage(op string, err error) {
	log.Printf("WARNING: %s: %v", op, err)
}
