// Package ui is the fyne window for cnbpad. It turns menu, shortcut, drop
// and find bar input into dispatcher actions and renders each result:
// status messages, tab changes, content reloads, selections and option
// changes.
//
// All methods run on the fyne UI goroutine. Timers and dialogs marshal
// back with fyne.Do.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"github.com/dshills/cnbpad/internal/app"
	"github.com/dshills/cnbpad/internal/dispatcher/handler"
	"github.com/dshills/cnbpad/internal/dispatcher/handlers/edit"
	"github.com/dshills/cnbpad/internal/dispatcher/handlers/file"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/workspace"
)

// Window is the main notepad window.
type Window struct {
	app     *app.Application
	fyneApp fyne.App
	win     fyne.Window

	tabs    *container.DocTabs
	items   map[uuid.UUID]*container.TabItem
	editors map[uuid.UUID]*widget.Entry

	menu   *menus
	status *statusBar
	find   *findBar

	// syncing suppresses tab selection callbacks while the strip is rebuilt.
	syncing bool
	// loading suppresses entry change callbacks while text is set from a
	// document.
	loading bool
}

// New builds the window. Nothing is shown until Run.
func New(a *app.Application, fyneApp fyne.App) *Window {
	cfg := a.Config()

	w := &Window{
		app:     a,
		fyneApp: fyneApp,
		win:     fyneApp.NewWindow(cfg.Window.Title),
		items:   make(map[uuid.UUID]*container.TabItem),
		editors: make(map[uuid.UUID]*widget.Entry),
		status:  newStatusBar(cfg.Editor.StatusTimeout.Std()),
	}
	w.win.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	w.tabs = container.NewDocTabs()
	w.tabs.OnSelected = w.onTabSelected
	w.tabs.CloseIntercept = w.onTabClose

	w.find = newFindBar(w)
	w.menu = newMenus(w)

	bottom := container.NewVBox(w.find.container, w.status.container)
	w.win.SetContent(container.NewBorder(nil, bottom, nil, nil, w.tabs))
	w.win.SetCloseIntercept(w.exit)
	w.win.SetOnDropped(w.onDropped)
	w.menu.addShortcuts(w.win.Canvas())

	w.applyOptions()
	return w
}

// Run restores the previous session, starts the count refresh and blocks
// until the window is closed.
func (w *Window) Run(ctx context.Context) {
	restoreErr := w.app.Restore()
	w.syncTabs()
	w.refreshChrome()
	w.refreshCounts()

	if restoreErr != nil {
		w.status.flash(restoreErr.Error())
	}
	if warning := w.app.StartupWarning(); warning != "" {
		dialog.ShowInformation("Settings", warning, w.win)
	}

	w.app.StartCounter(ctx, func() {
		fyne.Do(w.refreshCounts)
	})

	w.win.ShowAndRun()
}

// dispatch runs an action and renders its result.
func (w *Window) dispatch(action input.Action) handler.Result {
	result := w.app.Dispatch(action)
	w.apply(result)
	return result
}

func (w *Window) apply(result handler.Result) {
	if text := result.StatusText(); text != "" {
		w.status.flash(text)
	}

	update := result.ViewUpdate
	if update.Tabs {
		w.syncTabs()
	}
	if update.ReloadContent {
		w.reloadCurrent()
	}
	if update.Select != nil {
		w.selectRange(*update.Select)
	}
	if update.Options {
		w.applyOptions()
	}
	w.refreshChrome()
}

// syncTabs rebuilds the tab strip from the workspace, keeping the editors
// of documents that are still open.
func (w *Window) syncTabs() {
	w.syncing = true
	defer func() { w.syncing = false }()

	ws := w.app.Workspace()
	docs := ws.Documents()
	items := make([]*container.TabItem, 0, len(docs))
	open := make(map[uuid.UUID]bool, len(docs))
	for _, doc := range docs {
		item, ok := w.items[doc.ID()]
		if !ok {
			item = container.NewTabItem(doc.TabLabel(), w.newEditor(doc))
			w.items[doc.ID()] = item
		}
		item.Text = doc.TabLabel()
		items = append(items, item)
		open[doc.ID()] = true
	}
	for id := range w.items {
		if !open[id] {
			delete(w.items, id)
			delete(w.editors, id)
		}
	}

	w.tabs.SetItems(items)
	if i := ws.CurrentIndex(); i >= 0 {
		w.tabs.SelectIndex(i)
	}
	w.tabs.Refresh()
	w.focusEditor()
}

func (w *Window) newEditor(doc *workspace.Document) *widget.Entry {
	entry := widget.NewMultiLineEntry()
	entry.SetText(doc.Content())
	entry.Wrapping = wrapping(w.app.Settings().WordWrap())
	if doc.ReadOnly() {
		entry.Disable()
	}

	id := doc.ID()
	entry.OnChanged = func(text string) {
		if w.loading {
			return
		}
		doc := w.document(id)
		if doc == nil {
			return
		}
		doc.SetContent(text)
		if item := w.items[id]; item != nil && item.Text != doc.TabLabel() {
			item.Text = doc.TabLabel()
			w.tabs.Refresh()
		}
		w.refreshChrome()
	}

	w.editors[id] = entry
	return entry
}

func (w *Window) document(id uuid.UUID) *workspace.Document {
	ws := w.app.Workspace()
	doc, err := ws.Document(ws.Index(id))
	if err != nil {
		return nil
	}
	return doc
}

// currentEditor returns the entry of the current document, or nil.
func (w *Window) currentEditor() *widget.Entry {
	doc := w.app.Workspace().Current()
	if doc == nil {
		return nil
	}
	return w.editors[doc.ID()]
}

func (w *Window) focusEditor() {
	if entry := w.currentEditor(); entry != nil {
		w.win.Canvas().Focus(entry)
	}
}

func (w *Window) reloadCurrent() {
	doc := w.app.Workspace().Current()
	entry := w.currentEditor()
	if doc == nil || entry == nil {
		return
	}
	w.loading = true
	entry.SetText(doc.Content())
	w.loading = false
}

// selectRange moves the cursor of the current editor to the start of sel.
// The entry has no API to set a selection.
func (w *Window) selectRange(sel handler.Selection) {
	doc := w.app.Workspace().Current()
	entry := w.currentEditor()
	if doc == nil || entry == nil {
		return
	}
	entry.CursorRow, entry.CursorColumn = cursorAt(doc.Content(), sel.Start)
	entry.Refresh()
}

// applyOptions pushes settings-backed options into the view.
func (w *Window) applyOptions() {
	rec := w.app.Settings()
	wrap := wrapping(rec.WordWrap())
	for _, entry := range w.editors {
		if entry.Wrapping != wrap {
			entry.Wrapping = wrap
			entry.Refresh()
		}
	}
	w.fyneApp.Settings().SetTheme(themeFor(rec.Theme()))
	w.win.SetMainMenu(w.menu.build())
}

// refreshChrome updates the title, the file status and the menu state.
func (w *Window) refreshChrome() {
	ws := w.app.Workspace()
	w.win.SetTitle(ws.WindowTitle(w.app.Config().Window.Title))

	result := w.app.Dispatch(input.Action{Name: edit.ActionStatus})
	w.status.setFileStatus(result.Message)
	if v, ok := result.GetData("menu"); ok {
		if state, ok := v.(workspace.MenuState); ok {
			w.menu.setState(state)
		}
	}
}

func (w *Window) refreshCounts() {
	if w.app.Workspace().Current() == nil {
		w.status.setCounts(nil)
		return
	}
	result := w.app.Dispatch(input.Action{Name: edit.ActionCounts})
	var c workspace.Counts
	if v, ok := result.GetData("words"); ok {
		c.Words, _ = v.(int)
	}
	if v, ok := result.GetData("characters"); ok {
		c.Characters, _ = v.(int)
	}
	w.status.setCounts(&c)
}

func (w *Window) onTabSelected(item *container.TabItem) {
	if w.syncing {
		return
	}
	ws := w.app.Workspace()
	for i, doc := range ws.Documents() {
		if w.items[doc.ID()] == item {
			_ = ws.SetCurrent(i)
			break
		}
	}
	w.refreshChrome()
	w.refreshCounts()
}

// onTabClose intercepts the tab close button.
func (w *Window) onTabClose(item *container.TabItem) {
	for _, doc := range w.app.Workspace().Documents() {
		if w.items[doc.ID()] == item {
			w.closeDocument(doc)
			return
		}
	}
}

// closeCurrent is the Close Tab command.
func (w *Window) closeCurrent() {
	if doc := w.app.Workspace().Current(); doc != nil {
		w.closeDocument(doc)
	}
}

func (w *Window) closeDocument(doc *workspace.Document) {
	w.resolveUnsaved(doc, func() {
		i := w.app.Workspace().Index(doc.ID())
		if i < 0 {
			return
		}
		action := input.Action{
			Name: file.ActionClose,
			Args: input.ActionArgs{Force: true, Extra: map[string]any{file.IndexKey: i}},
		}
		w.dispatch(action)
		w.refreshCounts()
	})
}

// closeAll closes tabs from the first onward. At a modified document it
// asks before continuing.
func (w *Window) closeAll() {
	result := w.dispatch(input.Action{Name: file.ActionCloseAll})
	w.refreshCounts()
	if !errors.Is(result.Error, workspace.ErrUnsavedChanges) {
		return
	}

	doc, err := w.app.Workspace().Document(0)
	if err != nil {
		return
	}
	w.resolveUnsaved(doc, func() {
		action := input.Action{
			Name: file.ActionClose,
			Args: input.ActionArgs{Force: true, Extra: map[string]any{file.IndexKey: 0}},
		}
		if w.dispatch(action).IsOK() {
			w.closeAll()
		}
	})
}

// exit asks about every modified document, then shuts down and quits.
// The open tabs stay open so they are recorded for the next launch.
func (w *Window) exit() {
	w.confirmEach(w.app.Workspace().Documents(), func() {
		if err := w.app.Shutdown(); err != nil {
			logger := w.app.Logger()
			logger.Error().Err(err).Msg("shutdown failed")
		}
		w.fyneApp.Quit()
	})
}

func (w *Window) confirmEach(docs []*workspace.Document, done func()) {
	if len(docs) == 0 {
		done()
		return
	}
	w.resolveUnsaved(docs[0], func() {
		w.confirmEach(docs[1:], done)
	})
}

// resolveUnsaved runs proceed once doc may be discarded: immediately when
// it is unmodified, otherwise after the user saves or discards it. Cancel
// drops proceed.
func (w *Window) resolveUnsaved(doc *workspace.Document, proceed func()) {
	if !doc.Modified() {
		proceed()
		return
	}

	w.showDocument(doc)
	w.askUnsaved(doc.Name(), func(choice closeChoice) {
		switch choice {
		case choiceSave:
			w.saveCurrent(proceed)
		case choiceDiscard:
			proceed()
		}
	})
}

func (w *Window) showDocument(doc *workspace.Document) {
	ws := w.app.Workspace()
	if i := ws.Index(doc.ID()); i >= 0 && i != ws.CurrentIndex() {
		_ = ws.SetCurrent(i)
		w.syncTabs()
		w.refreshChrome()
	}
}

type closeChoice int

const (
	choiceCancel closeChoice = iota
	choiceSave
	choiceDiscard
)

// askUnsaved shows the Save/Discard/Cancel prompt for a modified document.
func (w *Window) askUnsaved(name string, decide func(closeChoice)) {
	var d *dialog.CustomDialog
	answer := func(choice closeChoice) func() {
		return func() {
			d.Hide()
			decide(choice)
		}
	}

	msg := widget.NewLabel(fmt.Sprintf("%q has been modified.\nDo you want to save your changes?", name))
	d = dialog.NewCustomWithoutButtons("Unsaved Changes", msg, w.win)
	d.SetButtons([]fyne.CanvasObject{
		widget.NewButton("Save", answer(choiceSave)),
		widget.NewButton("Discard", answer(choiceDiscard)),
		layout.NewSpacer(),
		widget.NewButton("Cancel", answer(choiceCancel)),
	})
	d.Show()
}

// saveCurrent saves the current document, asking for a path when it has
// none. then runs after a successful save.
func (w *Window) saveCurrent(then func()) {
	result := w.dispatch(input.Action{Name: file.ActionSave})
	switch {
	case errors.Is(result.Error, workspace.ErrNoPath):
		w.saveAs(then)
	case result.IsOK() && then != nil:
		then()
	}
}

// saveAs asks for a path and saves the current document there.
func (w *Window) saveAs(then func()) {
	doc := w.app.Workspace().Current()
	if doc == nil {
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			fyne.Do(func() { dialog.ShowError(err, w.win) })
			return
		}
		if writer == nil {
			return
		}
		chosen := writer.URI().Path()
		_ = writer.Close()

		fyne.Do(func() {
			result := w.dispatch(input.Action{Name: file.ActionSaveAs}.WithPath(chosen))
			if !result.IsOK() {
				return
			}
			// The dialog creates the chosen file. Drop it when the default
			// extension sent the text elsewhere.
			if saved, _ := result.GetData("path"); saved != chosen {
				removeIfEmpty(chosen)
			}
			if then != nil {
				then()
			}
		})
	}, w.win)
	d.SetFileName(doc.Name())
	d.Show()
}

func removeIfEmpty(path string) {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && info.Size() == 0 {
		_ = os.Remove(path)
	}
}

// openDialog asks for a file and opens it.
func (w *Window) openDialog(readOnly bool) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			fyne.Do(func() { dialog.ShowError(err, w.win) })
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		fyne.Do(func() {
			w.open(path, readOnly, input.SourceMenu)
		})
	}, w.win)
}

func (w *Window) open(path string, readOnly bool, source input.ActionSource) {
	name := file.ActionOpen
	if readOnly {
		name = file.ActionOpenReadOnly
	}
	w.dispatch(input.Action{Name: name}.WithPath(path).WithSource(source))
	w.refreshCounts()
}

// onDropped opens every dropped local regular file.
func (w *Window) onDropped(_ fyne.Position, uris []fyne.URI) {
	for _, uri := range uris {
		if uri.Scheme() != "file" {
			continue
		}
		info, err := os.Stat(uri.Path())
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		w.open(uri.Path(), false, input.SourceDrop)
	}
}
