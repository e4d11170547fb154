package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	searchhandler "github.com/dshills/cnbpad/internal/dispatcher/handlers/search"
	"github.com/dshills/cnbpad/internal/input"
)

// findBar is the find and replace strip below the editor. The replace row
// is only visible in replace mode.
type findBar struct {
	w *Window

	container   *fyne.Container
	query       *widget.Entry
	replacement *widget.Entry
	replaceRow  *fyne.Container
}

func newFindBar(w *Window) *findBar {
	fb := &findBar{
		w:           w,
		query:       widget.NewEntry(),
		replacement: widget.NewEntry(),
	}
	fb.query.SetPlaceHolder("Find")
	fb.query.OnSubmitted = func(string) { fb.findNext() }
	fb.replacement.SetPlaceHolder("Replace with")
	fb.replacement.OnSubmitted = func(string) { fb.replace() }

	findRow := container.NewBorder(nil, nil,
		widget.NewLabel("Find:"),
		container.NewHBox(
			widget.NewButton("Find Next", fb.findNext),
			widget.NewButton("Close", fb.hide),
		),
		fb.query,
	)
	fb.replaceRow = container.NewBorder(nil, nil,
		widget.NewLabel("Replace:"),
		container.NewHBox(
			widget.NewButton("Replace", fb.replace),
			widget.NewButton("Replace All", fb.replaceAll),
		),
		fb.replacement,
	)

	fb.container = container.NewVBox(findRow, fb.replaceRow)
	fb.container.Hide()
	return fb
}

// show opens the bar and focuses the query field.
func (fb *findBar) show(withReplace bool) {
	if withReplace {
		fb.replaceRow.Show()
	} else {
		fb.replaceRow.Hide()
	}
	fb.container.Show()
	fb.w.win.Canvas().Focus(fb.query)
}

func (fb *findBar) hide() {
	fb.w.dispatch(fb.action(searchhandler.ActionDismiss))
	fb.container.Hide()
	fb.w.focusEditor()
}

func (fb *findBar) findNext() {
	fb.w.dispatch(fb.action(searchhandler.ActionFindNext))
}

func (fb *findBar) replace() {
	fb.w.dispatch(fb.action(searchhandler.ActionReplace))
}

func (fb *findBar) replaceAll() {
	fb.w.dispatch(fb.action(searchhandler.ActionReplaceAll))
}

func (fb *findBar) action(name string) input.Action {
	action := input.Action{Name: name}.
		WithQuery(fb.query.Text).
		WithSource(input.SourceFindBar)
	action.Args.Replacement = fb.replacement.Text
	return action
}
