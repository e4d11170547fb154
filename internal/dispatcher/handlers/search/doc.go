// Package search provides handlers for the find/replace bar.
//
// This package implements:
//   - Find the first occurrence of a query
//   - Find the next occurrence, wrapping at the end
//   - Replace the selected occurrence and select the next
//   - Replace every occurrence
//   - Dismiss the bar, discarding the match set
//
// Matching is literal and case-sensitive. The handlers drive the shared
// search.Session on the current document. Edits are written back through
// Document.SetContent, so any later edit changes the revision and
// invalidates the match set.
package search
