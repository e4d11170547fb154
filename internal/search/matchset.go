package search

// MatchSet is the ordered result of one find operation plus a cursor.
// The zero value is an empty set with no selection.
type MatchSet struct {
	query  string
	ranges []Range
	index  int // -1 when nothing is selected
}

// NewMatchSet computes the matches of query in text. Nothing is selected.
func NewMatchSet(text, query string) MatchSet {
	return MatchSet{
		query:  query,
		ranges: FindAll(text, query),
		index:  -1,
	}
}

// Query returns the query the set was computed for.
func (m MatchSet) Query() string {
	return m.query
}

// Len returns the number of matches.
func (m MatchSet) Len() int {
	return len(m.ranges)
}

// Empty reports whether the set has no matches.
func (m MatchSet) Empty() bool {
	return len(m.ranges) == 0
}

// Ranges returns a copy of the match ranges in document order.
func (m MatchSet) Ranges() []Range {
	out := make([]Range, len(m.ranges))
	copy(out, m.ranges)
	return out
}

// Index returns the selected index, or -1 if nothing is selected.
func (m MatchSet) Index() int {
	if len(m.ranges) == 0 || m.index < 0 || m.index >= len(m.ranges) {
		return -1
	}
	return m.index
}

// Current returns the selected range.
func (m MatchSet) Current() (Range, bool) {
	i := m.Index()
	if i < 0 {
		return Range{}, false
	}
	return m.ranges[i], true
}

// First selects the first match.
func (m MatchSet) First() (MatchSet, error) {
	if len(m.ranges) == 0 {
		m.index = -1
		return m, ErrNotFound
	}
	m.index = 0
	return m, nil
}

// Next selects the following match, wrapping to the first one past the end.
// With nothing selected it selects the first match.
func (m MatchSet) Next() (MatchSet, error) {
	if len(m.ranges) == 0 {
		m.index = -1
		return m, ErrNotFound
	}
	if m.Index() < 0 {
		m.index = 0
		return m, nil
	}
	m.index = (m.index + 1) % len(m.ranges)
	return m, nil
}

// Select selects the match at index i.
func (m MatchSet) Select(i int) (MatchSet, error) {
	if i < 0 || i >= len(m.ranges) {
		return m, ErrNotFound
	}
	m.index = i
	return m, nil
}

// SelectAt selects the first match starting at or after offset, wrapping to
// the first match.
func (m MatchSet) SelectAt(offset int) (MatchSet, error) {
	if len(m.ranges) == 0 {
		m.index = -1
		return m, ErrNotFound
	}
	m.index = 0
	for i, r := range m.ranges {
		if r.Start >= offset {
			m.index = i
			break
		}
	}
	return m, nil
}
