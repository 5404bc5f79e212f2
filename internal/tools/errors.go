package tools

import "fmt"

// ValidationError reports a missing or empty required request field. It is
// raised before any I/O happens.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// StorageError wraps a document-store failure. Store errors are never
// retried; the request aborts at the failed step.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
