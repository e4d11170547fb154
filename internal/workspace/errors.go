// Package workspace holds the open documents of a notepad window.
package workspace

import (
	"errors"
	"fmt"
)

// Workspace errors.
var (
	// ErrNoDocument indicates no document is open or the index is out of range.
	ErrNoDocument = errors.New("no document")

	// ErrUnsavedChanges indicates a close was refused because of unsaved changes.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrReadOnly indicates a write to a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrNoPath indicates a save of a document that has never been saved.
	ErrNoPath = errors.New("document has no path")
)

// OperationError represents an error that occurred during a file operation.
type OperationError struct {
	Op   string // Operation name (e.g., "save", "open", "close")
	Path string // File path, if any
	Err  error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, path string, err error) *OperationError {
	return &OperationError{Op: op, Path: path, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
