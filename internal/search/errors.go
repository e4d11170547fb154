package search

import "errors"

// Search errors.
var (
	// ErrNotFound indicates the query has no occurrences.
	ErrNotFound = errors.New("search: not found")

	// ErrStaleMatch indicates the selected range no longer holds the query.
	ErrStaleMatch = errors.New("search: selected text no longer matches query")
)
