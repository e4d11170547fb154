package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/dshills/cnbpad/internal/workspace"
)

// statusBar shows a transient message on the left and the counts and file
// status on the right.
type statusBar struct {
	container  *fyne.Container
	message    *widget.Label
	words      *widget.Label
	characters *widget.Label
	file       *widget.Label

	timeout time.Duration
	// gen is bumped per message so an older timer does not clear a newer
	// message. UI goroutine only.
	gen uint64
}

func newStatusBar(timeout time.Duration) *statusBar {
	s := &statusBar{
		message:    widget.NewLabel(""),
		words:      widget.NewLabel(""),
		characters: widget.NewLabel(""),
		file:       widget.NewLabel("Status: No File"),
		timeout:    timeout,
	}
	s.message.Truncation = fyne.TextTruncateEllipsis

	right := container.NewHBox(
		s.words,
		s.characters,
		widget.NewSeparator(),
		s.file,
	)
	s.container = container.NewBorder(nil, nil, nil, right, s.message)
	s.setCounts(nil)
	return s
}

// flash shows msg until the status timeout elapses.
func (s *statusBar) flash(msg string) {
	s.gen++
	gen := s.gen
	s.message.SetText(msg)

	time.AfterFunc(s.timeout, func() {
		fyne.Do(func() {
			if s.gen == gen {
				s.message.SetText("")
			}
		})
	})
}

// setCounts shows the counts, or hides them when c is nil.
func (s *statusBar) setCounts(c *workspace.Counts) {
	if c == nil {
		s.words.Hide()
		s.characters.Hide()
		return
	}
	s.words.SetText(c.WordsLabel())
	s.characters.SetText(c.CharactersLabel())
	s.words.Show()
	s.characters.Show()
}

func (s *statusBar) setFileStatus(text string) {
	s.file.SetText(text)
}
