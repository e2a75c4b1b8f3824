package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrProfileNotFound, ErrInteractionNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second interaction for the same user and card).
	ErrDuplicate = errors.New("entity already exists")

	// ErrConflict is returned when a row-level lock or optimistic update
	// fails because of a concurrent writer. The caller should retry the
	// whole operation from a fresh read; the store performs no retries.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrInteractionNotFound indicates that no interaction exists for the
	// requested (user, card) pair.
	ErrInteractionNotFound = fmt.Errorf("%w: interaction", ErrNotFound)

	// ErrProfileNotFound indicates that the requested profile does not exist.
	// Profiles are created at signup; a missing profile is a precondition
	// violation, not a retryable condition.
	ErrProfileNotFound = fmt.Errorf("%w: profile", ErrNotFound)

	// ErrCategoryProgressNotFound indicates that no rollup exists for the
	// requested (user, category) pair.
	ErrCategoryProgressNotFound = fmt.Errorf("%w: category progress", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrInteractionExists indicates an interaction already exists for the
	// (user, card) pair.
	ErrInteractionExists = fmt.Errorf("%w: interaction", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError checks if the error is a concurrency conflict that the
// caller may resolve by retrying from a fresh read.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "profile", "interaction")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
