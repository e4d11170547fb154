package ui

import (
	"strings"
	"unicode/utf8"
)

// cursorAt converts a byte offset in text to the row and rune column an
// entry cursor uses. Offsets past the end clamp to the end of the text.
func cursorAt(text string, offset int) (row, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	row = strings.Count(before, "\n")
	if nl := strings.LastIndexByte(before, '\n'); nl >= 0 {
		before = before[nl+1:]
	}
	return row, utf8.RuneCountInString(before)
}
