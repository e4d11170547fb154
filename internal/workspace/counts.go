package workspace

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// Counts holds the statistics shown in the status bar.
type Counts struct {
	Words      int
	Characters int
}

// CountText counts whitespace-separated words and user-perceived characters.
func CountText(text string) Counts {
	return Counts{
		Words:      len(strings.Fields(text)),
		Characters: uniseg.GraphemeClusterCount(text),
	}
}

// WordsLabel returns the status bar text for the word count.
func (c Counts) WordsLabel() string {
	return fmt.Sprintf("Words: %d", c.Words)
}

// CharactersLabel returns the status bar text for the character count.
func (c Counts) CharactersLabel() string {
	return fmt.Sprintf("Characters: %d", c.Characters)
}

// String returns both labels.
func (c Counts) String() string {
	return c.WordsLabel() + "  " + c.CharactersLabel()
}
