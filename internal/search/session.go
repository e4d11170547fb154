package search

import "github.com/google/uuid"

// Buffer is the text buffer a Session searches. Revision must change
// whenever the content changes.
type Buffer interface {
	ID() uuid.UUID
	Revision() uint64
	Content() string
	SetContent(text string)
}

// ReplaceResult describes the outcome of Session.Replace.
type ReplaceResult struct {
	// Replaced is true if a span was replaced.
	Replaced bool
	// Selection is the match selected after the operation, if any.
	Selection Range
	// HasSelection is false when no match remains.
	HasSelection bool
}

// Session owns the match set of one find/replace dialog.
//
// The set is bound to a buffer identity, buffer revision and query. It is
// rebuilt when any of them change and dropped by Invalidate.
type Session struct {
	docID    uuid.UUID
	revision uint64
	set      MatchSet
	valid    bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{set: MatchSet{index: -1}}
}

// Query returns the query of the current match set.
func (s *Session) Query() string {
	if !s.valid {
		return ""
	}
	return s.set.query
}

// MatchSet returns the current match set and whether it is valid.
func (s *Session) MatchSet() (MatchSet, bool) {
	return s.set, s.valid
}

// Current returns the selected match.
func (s *Session) Current() (Range, bool) {
	if !s.valid {
		return Range{}, false
	}
	return s.set.Current()
}

// Highlights returns all match ranges for rendering.
func (s *Session) Highlights() []Range {
	if !s.valid {
		return nil
	}
	return s.set.Ranges()
}

// Invalidate discards the match set.
func (s *Session) Invalidate() {
	s.valid = false
	s.set = MatchSet{index: -1}
}

// Find computes a fresh match set for query and selects the first match.
func (s *Session) Find(buf Buffer, query string) (Range, error) {
	s.bind(buf, NewMatchSet(buf.Content(), query))

	set, err := s.set.First()
	s.set = set
	if err != nil {
		return Range{}, err
	}
	cur, _ := s.set.Current()
	return cur, nil
}

// FindNext selects the next match, wrapping around. A fresh search is run
// when the query, buffer or revision differ from the current set.
func (s *Session) FindNext(buf Buffer, query string) (Range, error) {
	if !s.matches(buf, query) {
		return s.Find(buf, query)
	}

	set, err := s.set.Next()
	s.set = set
	if err != nil {
		return Range{}, err
	}
	cur, _ := s.set.Current()
	return cur, nil
}

// Replace replaces the selected match with replacement and writes the new
// content back to buf. Without a current set for query it behaves like Find.
// A selection whose text no longer equals query is skipped, not replaced,
// and ErrStaleMatch is returned.
func (s *Session) Replace(buf Buffer, query, replacement string) (ReplaceResult, error) {
	if !s.matches(buf, query) {
		r, err := s.Find(buf, query)
		return ReplaceResult{Selection: r, HasSelection: err == nil}, err
	}

	text := buf.Content()
	newText, set, err := ReplaceCurrent(text, s.set, replacement)
	if err != nil {
		s.set = set
		cur, ok := set.Current()
		return ReplaceResult{Selection: cur, HasSelection: ok}, err
	}

	if newText != text {
		buf.SetContent(newText)
	}
	s.bind(buf, set)

	cur, ok := set.Current()
	return ReplaceResult{Replaced: true, Selection: cur, HasSelection: ok}, nil
}

// ReplaceAll replaces every occurrence of query in buf and returns the
// count. The match set is discarded afterwards.
func (s *Session) ReplaceAll(buf Buffer, query, replacement string) (int, error) {
	s.Invalidate()

	newText, n := ReplaceAll(buf.Content(), query, replacement)
	if n == 0 {
		return 0, ErrNotFound
	}
	buf.SetContent(newText)
	return n, nil
}

func (s *Session) bind(buf Buffer, set MatchSet) {
	s.docID = buf.ID()
	s.revision = buf.Revision()
	s.set = set
	s.valid = true
}

func (s *Session) matches(buf Buffer, query string) bool {
	return s.valid &&
		s.docID == buf.ID() &&
		s.revision == buf.Revision() &&
		s.set.query == query
}
