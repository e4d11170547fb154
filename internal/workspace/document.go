package workspace

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Document status labels.
const (
	StatusReadOnly = "Read-Only"
	StatusModified = "Modified"
	StatusSaved    = "Saved"
)

// UntitledName is the display name of a document that has no path.
const UntitledName = "Untitled"

// ModifiedMarker prefixes the tab label of a modified document.
const ModifiedMarker = "•"

// Document is one open text buffer.
//
// A Document is owned by the UI goroutine and is not safe for concurrent use.
type Document struct {
	id       uuid.UUID
	path     string
	readOnly bool

	content  string
	saved    string
	revision uint64
}

// NewDocument creates a document with the given path and content. The
// content is taken as the saved state.
func NewDocument(path, content string, readOnly bool) *Document {
	return &Document{
		id:       uuid.New(),
		path:     path,
		readOnly: readOnly,
		content:  content,
		saved:    content,
	}
}

// NewScratchDocument creates an empty, unsaved document.
func NewScratchDocument() *Document {
	return NewDocument("", "", false)
}

// ID returns the document's identity. It never changes, even across save-as.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Path returns the file path, or "" for a scratch document.
func (d *Document) Path() string {
	return d.path
}

// IsScratch returns true if the document has never been saved.
func (d *Document) IsScratch() bool {
	return d.path == ""
}

// ReadOnly reports whether the document was opened read-only.
func (d *Document) ReadOnly() bool {
	return d.readOnly
}

// Content returns the full text.
func (d *Document) Content() string {
	return d.content
}

// SetContent replaces the text. The revision advances only when the text
// actually changes.
func (d *Document) SetContent(text string) {
	if text == d.content {
		return
	}
	d.content = text
	d.revision++
}

// Revision counts content changes since the document was opened.
func (d *Document) Revision() uint64 {
	return d.revision
}

// Modified reports whether the text differs from what was last saved.
func (d *Document) Modified() bool {
	return d.content != d.saved
}

// MarkSaved records the current text as saved under path.
func (d *Document) MarkSaved(path string) {
	d.path = path
	d.saved = d.content
}

// Name returns the base name of the path, or "Untitled".
func (d *Document) Name() string {
	if d.path == "" {
		return UntitledName
	}
	return filepath.Base(d.path)
}

// TabLabel returns the name, prefixed with a marker when modified.
func (d *Document) TabLabel() string {
	if d.Modified() {
		return ModifiedMarker + d.Name()
	}
	return d.Name()
}

// Status returns "Read-Only", "Modified" or "Saved".
func (d *Document) Status() string {
	switch {
	case d.readOnly:
		return StatusReadOnly
	case d.Modified():
		return StatusModified
	default:
		return StatusSaved
	}
}

// Counts returns the word and character counts of the text.
func (d *Document) Counts() Counts {
	return CountText(d.content)
}
