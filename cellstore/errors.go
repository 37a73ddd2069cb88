package cellstore

import (
	"errors"
	"fmt"
)

// ErrSnapshotNotFound is returned when no snapshot matches the given
// id or name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrMacroNotFound is returned when a snapshot holds no macro with the
// requested name.
var ErrMacroNotFound = errors.New("macro not found")

// StorageError represents an error from the storage backend.
type StorageError struct {
	Backend   string // storage backend type ("sqlite")
	Operation string // operation that failed ("save", "query", "delete", etc.)
	Cause     error  // underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
