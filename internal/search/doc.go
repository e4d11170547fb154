// Package search implements literal find and replace over plain document text.
//
// Matching is case-sensitive substring search, never regular expressions.
// Query metacharacters such as '.', '*' or '(' match themselves.
//
// A MatchSet is the ordered result of one find operation plus a cursor into
// it. MatchSet values are immutable: First, Next and ReplaceCurrent return new
// sets instead of modifying the receiver. Offsets are byte offsets into the
// text the set was computed from.
//
// A Session owns the match set for one find/replace dialog and discards it
// whenever the query changes, the document is edited, or the dialog is
// dismissed:
//
//	s := search.NewSession()
//	r, err := s.Find(doc.ID, doc.Revision(), doc.Content(), "needle")
//	if errors.Is(err, search.ErrNotFound) {
//	    // report "'needle' not found"
//	}
package search
