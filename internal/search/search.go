package search

import "strings"

// Range is a half-open byte range [Start, End) into a document.
type Range struct {
	Start int
	End   int
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// FindAll returns every non-overlapping occurrence of query in text, scanning
// left to right. An empty query has no occurrences.
func FindAll(text, query string) []Range {
	ranges := make([]Range, 0)
	if query == "" {
		return ranges
	}

	offset := 0
	for offset <= len(text)-len(query) {
		idx := strings.Index(text[offset:], query)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(query)
		ranges = append(ranges, Range{Start: start, End: end})
		offset = end
	}
	return ranges
}

// ReplaceAll replaces every non-overlapping occurrence of query with
// replacement and returns the new text and the number of replacements.
// Occurrences are located in the original text, so a replacement that itself
// contains query is not reprocessed.
func ReplaceAll(text, query, replacement string) (string, int) {
	ranges := FindAll(text, query)
	if len(ranges) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text) + len(ranges)*(len(replacement)-len(query)))

	last := 0
	for _, r := range ranges {
		b.WriteString(text[last:r.Start])
		b.WriteString(replacement)
		last = r.End
	}
	b.WriteString(text[last:])

	return b.String(), len(ranges)
}

// ReplaceCurrent replaces the selected match of ms in text.
//
// The text at the selected range must equal the set's query. If it does not,
// or nothing is selected, text is returned unchanged together with ms advanced
// by Next and ErrStaleMatch. Otherwise the returned set is recomputed over the
// new text with the cursor on the first match at or after the inserted
// replacement, wrapping to the first match.
func ReplaceCurrent(text string, ms MatchSet, replacement string) (string, MatchSet, error) {
	cur, ok := ms.Current()
	if !ok || !rangeHolds(text, cur, ms.query) {
		next, err := ms.Next()
		if err != nil {
			return text, next, err
		}
		return text, next, ErrStaleMatch
	}

	newText := text[:cur.Start] + replacement + text[cur.End:]
	after := cur.Start + len(replacement)

	next := NewMatchSet(newText, ms.query)
	if next.Len() == 0 {
		return newText, next, nil
	}
	next.index = 0
	for i, r := range next.ranges {
		if r.Start >= after {
			next.index = i
			break
		}
	}
	return newText, next, nil
}

func rangeHolds(text string, r Range, query string) bool {
	if query == "" || r.Start < 0 || r.End > len(text) || r.Start > r.End {
		return false
	}
	return text[r.Start:r.End] == query
}
