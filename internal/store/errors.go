package store

import (
	"errors"
	"fmt"
)

// Common database error types that abstract away database implementation details.
// These wrap lower-level errors to provide a consistent interface for error handling
// across the application regardless of the underlying storage mechanism.
var (
	// ErrNotFound indicates that a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate indicates a unique constraint violation, such as attempting
	// to register a username or email that already exists.
	ErrDuplicate = errors.New("duplicate entity")

	// ErrInvalidEntity indicates the entity failed validation before storage.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed indicates a database transaction failed to complete.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Entity-specific wrapped errors. These satisfy errors.Is checks against the
// generic sentinels above while carrying the entity name for log messages.
var (
	ErrFAQNotFound      = fmt.Errorf("%w: faq", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrSessionNotFound  = fmt.Errorf("%w: conversation session", ErrNotFound)
	ErrLogNotFound      = fmt.Errorf("%w: question log", ErrNotFound)
	ErrFeedbackNotFound = fmt.Errorf("%w: feedback", ErrNotFound)

	ErrUsernameExists = fmt.Errorf("%w: username already registered", ErrDuplicate)
	ErrEmailExists    = fmt.Errorf("%w: email already registered", ErrDuplicate)
)

// StoreError provides context about store operation failures while
// preserving the underlying database error for unwrapping.
type StoreError struct {
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given message and underlying error.
func NewStoreError(message string, err error) *StoreError {
	return &StoreError{
		Message: message,
		Err:     err,
	}
}

// IsNotFoundError returns true if the error indicates a missing entity.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError returns true if the error indicates a uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
