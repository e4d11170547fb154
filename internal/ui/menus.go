package ui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/dshills/cnbpad/internal/dispatcher/handlers/file"
	"github.com/dshills/cnbpad/internal/dispatcher/handlers/options"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/settings"
	"github.com/dshills/cnbpad/internal/workspace"
)

// Keyboard shortcuts. KeyModifierShortcutDefault is Ctrl, or Cmd on macOS.
var (
	shortcutNew      = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault}
	shortcutOpen     = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	shortcutSave     = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}
	shortcutSaveAs   = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	shortcutClose    = &desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierShortcutDefault}
	shortcutQuit     = &desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: fyne.KeyModifierShortcutDefault}
	shortcutFind     = &desktop.CustomShortcut{KeyName: fyne.KeyF, Modifier: fyne.KeyModifierShortcutDefault}
	shortcutReplace  = &desktop.CustomShortcut{KeyName: fyne.KeyH, Modifier: fyne.KeyModifierShortcutDefault}
	shortcutFindNext = &desktop.CustomShortcut{KeyName: fyne.KeyF3}
)

// menus builds the main menu from the current settings and tracks the
// items whose enabled state follows the workspace.
type menus struct {
	w    *Window
	main *fyne.MainMenu

	save, saveAs, closeTab, closeAll *fyne.MenuItem
	edit                             []*fyne.MenuItem
}

func newMenus(w *Window) *menus {
	return &menus{w: w}
}

// build creates a fresh main menu. It is rebuilt whenever an option or the
// recent list changes.
func (m *menus) build() *fyne.MainMenu {
	w := m.w

	m.save = fyne.NewMenuItem("Save", func() { w.saveCurrent(nil) })
	m.save.Shortcut = shortcutSave
	m.saveAs = fyne.NewMenuItem("Save As...", func() { w.saveAs(nil) })
	m.saveAs.Shortcut = shortcutSaveAs
	m.closeTab = fyne.NewMenuItem("Close Tab", w.closeCurrent)
	m.closeTab.Shortcut = shortcutClose
	m.closeAll = fyne.NewMenuItem("Close All", w.closeAll)

	newItem := fyne.NewMenuItem("New", m.newDocument)
	newItem.Shortcut = shortcutNew
	openItem := fyne.NewMenuItem("Open...", func() { w.openDialog(false) })
	openItem.Shortcut = shortcutOpen
	exitItem := fyne.NewMenuItem("Exit", w.exit)
	exitItem.Shortcut = shortcutQuit
	// Keeps fyne from appending its own Quit item.
	exitItem.IsQuit = true

	items := []*fyne.MenuItem{newItem}
	if recent := m.recentItem(); recent != nil {
		items = append(items, recent)
	}
	items = append(items,
		openItem,
		fyne.NewMenuItem("Open Read-Only...", func() { w.openDialog(true) }),
		m.save,
		m.saveAs,
		fyne.NewMenuItemSeparator(),
		m.closeTab,
		m.closeAll,
		fyne.NewMenuItemSeparator(),
		exitItem,
	)
	m.main = fyne.NewMainMenu(fyne.NewMenu("File", items...), m.editMenu(), m.optionsMenu())
	m.setState(w.app.Workspace().MenuState())
	return m.main
}

// recentItem returns the Recent submenu, or nil when the bound is zero.
func (m *menus) recentItem() *fyne.MenuItem {
	rec := m.w.app.Settings()
	if rec.MaxRecentFiles() == 0 {
		return nil
	}

	var children []*fyne.MenuItem
	for _, path := range rec.RecentFiles() {
		children = append(children, fyne.NewMenuItem(recentLabel(path), func() {
			m.w.open(path, false, input.SourceMenu)
		}))
	}
	if len(children) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		children = append(children, none)
	}

	item := fyne.NewMenuItem("Recent", nil)
	item.ChildMenu = fyne.NewMenu("", children...)
	return item
}

// recentLabel is the menu text for a recent file: its base name followed by
// the directory.
func recentLabel(path string) string {
	return fmt.Sprintf("%s (%s)", filepath.Base(path), filepath.Dir(path))
}

func (m *menus) editMenu() *fyne.Menu {
	w := m.w
	clipboard := w.fyneApp.Clipboard()

	m.edit = []*fyne.MenuItem{
		m.entryItem("Undo", &fyne.ShortcutUndo{}),
		m.entryItem("Redo", &fyne.ShortcutRedo{}),
		m.entryItem("Cut", &fyne.ShortcutCut{Clipboard: clipboard}),
		m.entryItem("Copy", &fyne.ShortcutCopy{Clipboard: clipboard}),
		m.entryItem("Paste", &fyne.ShortcutPaste{Clipboard: clipboard}),
		m.entryItem("Select All", &fyne.ShortcutSelectAll{}),
	}

	find := fyne.NewMenuItem("Find", func() { w.find.show(false) })
	find.Shortcut = shortcutFind
	findNext := fyne.NewMenuItem("Find Next", w.find.findNext)
	findNext.Shortcut = shortcutFindNext
	replace := fyne.NewMenuItem("Find and Replace", func() { w.find.show(true) })
	replace.Shortcut = shortcutReplace

	items := append([]*fyne.MenuItem{}, m.edit...)
	items = append(items, fyne.NewMenuItemSeparator(), find, findNext, replace)
	return fyne.NewMenu("Edit", items...)
}

// entryItem forwards a standard shortcut to the current editor.
func (m *menus) entryItem(label string, shortcut fyne.Shortcut) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, func() {
		if entry := m.w.currentEditor(); entry != nil {
			entry.TypedShortcut(shortcut)
		}
	})
	item.Shortcut = shortcut
	return item
}

func (m *menus) optionsMenu() *fyne.Menu {
	w := m.w
	rec := w.app.Settings()

	toggle := func(label, action string, checked bool) *fyne.MenuItem {
		item := fyne.NewMenuItem(label, func() {
			w.dispatch(input.Action{Name: action}.WithSource(input.SourceMenu))
		})
		item.Checked = checked
		return item
	}

	debug := fyne.NewMenuItem("Debug Logging", func() {
		w.dispatch(input.Action{
			Name:   options.ActionSetDebug,
			Args:   input.ActionArgs{Extra: map[string]any{options.EnabledKey: !rec.DebugEnabled()}},
			Source: input.SourceMenu,
		})
	})
	debug.Checked = rec.DebugEnabled()

	maxRecent := fyne.NewMenuItem("Max Recent Files", nil)
	maxRecent.ChildMenu = fyne.NewMenu("", m.maxRecentItems(rec)...)

	return fyne.NewMenu("Options",
		toggle("Word Wrap", options.ActionToggleWordWrap, rec.WordWrap()),
		toggle("Reopen Last File", options.ActionToggleReopenLast, rec.ReopenLast()),
		toggle("Dark Mode", options.ActionToggleTheme, rec.Theme() == settings.ThemeDark),
		fyne.NewMenuItemSeparator(),
		maxRecent,
		fyne.NewMenuItemSeparator(),
		debug,
	)
}

func (m *menus) maxRecentItems(rec *settings.Record) []*fyne.MenuItem {
	current := rec.MaxRecentFiles()
	items := make([]*fyne.MenuItem, 0, settings.MaxRecentFilesCap-settings.MinRecentFiles+1)
	for n := settings.MinRecentFiles; n <= settings.MaxRecentFilesCap; n++ {
		item := fyne.NewMenuItem(fmt.Sprint(n), func() {
			action := input.Action{Name: options.ActionSetMaxRecent, Source: input.SourceMenu}
			action.Args.Int = n
			m.w.dispatch(action)
		})
		item.Checked = n == current
		items = append(items, item)
	}
	return items
}

func (m *menus) newDocument() {
	m.w.dispatch(input.Action{Name: file.ActionNew, Source: input.SourceMenu})
	m.w.refreshCounts()
}

// setState enables the file and edit items that apply to the current
// document.
func (m *menus) setState(state workspace.MenuState) {
	if m.main == nil {
		return
	}
	m.save.Disabled = !state.Save
	m.saveAs.Disabled = !state.SaveAs
	m.closeTab.Disabled = !state.Close
	m.closeAll.Disabled = !state.CloseAll
	for _, item := range m.edit {
		item.Disabled = !state.Edit
	}
	m.main.Refresh()
}

// addShortcuts registers the window-level shortcuts. Entries handle the
// clipboard and undo shortcuts themselves.
func (m *menus) addShortcuts(canvas fyne.Canvas) {
	w := m.w
	bind := map[*desktop.CustomShortcut]func(){
		shortcutNew:      m.newDocument,
		shortcutOpen:     func() { w.openDialog(false) },
		shortcutSave:     func() { w.saveCurrent(nil) },
		shortcutSaveAs:   func() { w.saveAs(nil) },
		shortcutClose:    w.closeCurrent,
		shortcutQuit:     w.exit,
		shortcutFind:     func() { w.find.show(false) },
		shortcutReplace:  func() { w.find.show(true) },
		shortcutFindNext: w.find.findNext,
	}
	for shortcut, fn := range bind {
		canvas.AddShortcut(shortcut, func(fyne.Shortcut) { fn() })
	}
}
