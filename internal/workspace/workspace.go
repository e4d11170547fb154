package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
)

// DefaultExtension is appended by SaveAs to paths without an extension.
const DefaultExtension = ".txt"

// Option configures a Workspace.
type Option func(*Workspace)

// WithDefaultExtension sets the extension SaveAs appends. An empty
// extension disables it.
func WithDefaultExtension(ext string) Option {
	return func(w *Workspace) {
		w.defaultExt = ext
	}
}

// Workspace is the ordered set of open documents and the current tab.
type Workspace struct {
	docs       []*Document
	current    int
	defaultExt string
}

// New creates an empty workspace.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		current:    -1,
		defaultExt: DefaultExtension,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Len returns the number of open documents.
func (w *Workspace) Len() int {
	return len(w.docs)
}

// Documents returns the open documents in tab order.
func (w *Workspace) Documents() []*Document {
	return slices.Clone(w.docs)
}

// Document returns the document at index i.
func (w *Workspace) Document(i int) (*Document, error) {
	if i < 0 || i >= len(w.docs) {
		return nil, ErrNoDocument
	}
	return w.docs[i], nil
}

// Current returns the current document, or nil if none is open.
func (w *Workspace) Current() *Document {
	if w.current < 0 {
		return nil
	}
	return w.docs[w.current]
}

// CurrentIndex returns the current tab index, or -1.
func (w *Workspace) CurrentIndex() int {
	return w.current
}

// SetCurrent makes the document at index i current.
func (w *Workspace) SetCurrent(i int) error {
	if i < 0 || i >= len(w.docs) {
		return ErrNoDocument
	}
	w.current = i
	return nil
}

// Index returns the tab index of the document with the given ID, or -1.
func (w *Workspace) Index(id uuid.UUID) int {
	return slices.IndexFunc(w.docs, func(d *Document) bool { return d.ID() == id })
}

// IndexOfPath returns the tab index of the document saved at path, or -1.
func (w *Workspace) IndexOfPath(path string) int {
	return slices.IndexFunc(w.docs, func(d *Document) bool { return d.Path() == path })
}

// New opens an empty untitled document and makes it current.
func (w *Workspace) New() *Document {
	return w.add(NewScratchDocument())
}

// Open reads the file at path into a new document and makes it current.
// If the file is already open, its tab is made current instead.
func (w *Workspace) Open(path string, readOnly bool) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}

	if i := w.IndexOfPath(absPath); i >= 0 {
		w.current = i
		return w.docs[i], nil
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, NewOperationError("open", absPath, err)
	}
	if info.IsDir() {
		return nil, NewOperationError("open", absPath, fmt.Errorf("is a directory"))
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, NewOperationError("open", absPath, err)
	}

	return w.add(NewDocument(absPath, string(content), readOnly)), nil
}

func (w *Workspace) add(doc *Document) *Document {
	w.docs = append(w.docs, doc)
	w.current = len(w.docs) - 1
	return doc
}

// Save writes the document at index i to its path.
func (w *Workspace) Save(i int) error {
	doc, err := w.Document(i)
	if err != nil {
		return err
	}
	if doc.ReadOnly() {
		return NewOperationError("save", doc.Path(), ErrReadOnly)
	}
	if doc.IsScratch() {
		return NewOperationError("save", "", ErrNoPath)
	}
	return w.write(doc, doc.Path())
}

// SaveAs writes the document at index i to path and returns the path used.
// The default extension is appended when path has none.
func (w *Workspace) SaveAs(i int, path string) (string, error) {
	doc, err := w.Document(i)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", NewOperationError("save", path, err)
	}
	if filepath.Ext(absPath) == "" && w.defaultExt != "" {
		absPath += w.defaultExt
	}

	if err := w.write(doc, absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (w *Workspace) write(doc *Document, path string) error {
	if err := os.WriteFile(path, []byte(doc.Content()), 0o644); err != nil {
		return NewOperationError("save", path, err)
	}
	doc.MarkSaved(path)
	return nil
}

// Close closes the document at index i. A modified document is only closed
// when force is set; otherwise ErrUnsavedChanges is returned.
func (w *Workspace) Close(i int, force bool) error {
	doc, err := w.Document(i)
	if err != nil {
		return err
	}
	if doc.Modified() && !force {
		return NewOperationError("close", doc.Path(), ErrUnsavedChanges)
	}

	w.docs = slices.Delete(w.docs, i, i+1)
	switch {
	case len(w.docs) == 0:
		w.current = -1
	case i < w.current:
		w.current--
	case w.current >= len(w.docs):
		w.current = len(w.docs) - 1
	}
	return nil
}

// CloseAll closes documents from the first tab onward, stopping at the
// first one that refuses to close.
func (w *Workspace) CloseAll(force bool) error {
	for len(w.docs) > 0 {
		if err := w.Close(0, force); err != nil {
			return err
		}
	}
	return nil
}

// OpenPaths returns the paths of saved documents in tab order.
func (w *Workspace) OpenPaths() []string {
	paths := make([]string, 0, len(w.docs))
	for _, doc := range w.docs {
		if !doc.IsScratch() {
			paths = append(paths, doc.Path())
		}
	}
	return paths
}

// HasUnsaved reports whether any document has unsaved changes.
func (w *Workspace) HasUnsaved() bool {
	return slices.ContainsFunc(w.docs, (*Document).Modified)
}

// WindowTitle returns "<appTitle> • [<name>]" for the current document, or
// appTitle alone when nothing is open.
func (w *Workspace) WindowTitle(appTitle string) string {
	doc := w.Current()
	if doc == nil {
		return appTitle
	}
	return fmt.Sprintf("%s %s [%s]", appTitle, ModifiedMarker, doc.Name())
}

// FileStatus returns the status bar text for the current document.
func (w *Workspace) FileStatus() string {
	doc := w.Current()
	if doc == nil {
		return "Status: No File"
	}
	return "Status: " + doc.Status()
}

// MenuState reports which menu actions apply.
type MenuState struct {
	Save     bool
	SaveAs   bool
	Close    bool
	CloseAll bool
	Edit     bool
}

// MenuState returns the enabled state of the file and edit menus.
func (w *Workspace) MenuState() MenuState {
	doc := w.Current()
	has := doc != nil
	return MenuState{
		Save:     has && !doc.ReadOnly(),
		SaveAs:   has,
		Close:    has,
		CloseAll: has,
		Edit:     has && !doc.ReadOnly(),
	}
}
