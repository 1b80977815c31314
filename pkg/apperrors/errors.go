// Package apperrors holds the error taxonomy shared by the persistence layer,
// the domain services and the HTTP boundary.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an absent identifier or key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is matched by storage errors caused by a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
)

// ValidationError is a client error. Duplicate is set when the input collides
// with an existing row (email, account number).
type ValidationError struct {
	Field     string
	Message   string
	Duplicate bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func Duplicate(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Duplicate: true}
}

// StorageError wraps any failure of the underlying database.
type StorageError struct {
	Op         string
	Constraint string
	Err        error
	unique     bool
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// NewUniqueViolation builds a StorageError for a violated unique constraint.
func NewUniqueViolation(op, constraint string, err error) *StorageError {
	return &StorageError{Op: op, Constraint: constraint, Err: err, unique: true}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	if e.unique {
		return []error{e.Err, ErrDuplicate}
	}
	return []error{e.Err}
}

// IsUniqueViolation reports whether err was caused by the named unique
// constraint. An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var se *StorageError
	if !errors.As(err, &se) || !se.unique {
		return false
	}
	return constraint == "" || se.Constraint == constraint
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
