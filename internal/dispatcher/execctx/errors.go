package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingWorkspace indicates the workspace is required but not set.
	ErrMissingWorkspace = errors.New("execution context: workspace is required")

	// ErrMissingSettings indicates the settings record is required but not set.
	ErrMissingSettings = errors.New("execution context: settings are required")

	// ErrMissingSearch indicates the search session is required but not set.
	ErrMissingSearch = errors.New("execution context: search session is required")

	// ErrNoDocument indicates the action needs an open document.
	ErrNoDocument = errors.New("execution context: no document open")

	// ErrReadOnly indicates the document is read-only.
	ErrReadOnly = errors.New("execution context: document is read-only")
)
