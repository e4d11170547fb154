package file

import (
	"errors"
	"path/filepath"

	"github.com/dshills/cnbpad/internal/dispatcher/execctx"
	"github.com/dshills/cnbpad/internal/dispatcher/handler"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/workspace"
)

// Action names for file operations.
const (
	ActionNew          = "file.new"          // new untitled tab
	ActionOpen         = "file.open"         // open file in a new tab
	ActionOpenReadOnly = "file.openReadOnly" // open file without editing
	ActionSave         = "file.save"         // save current tab
	ActionSaveAs       = "file.saveAs"       // save current tab to new path
	ActionClose        = "file.close"        // close a tab
	ActionCloseAll     = "file.closeAll"     // close every tab
)

// IndexKey selects the tab for ActionClose in ActionArgs.Extra. The current
// tab is closed when it is absent.
const IndexKey = "index"

// ErrPathRequired indicates an open or save-as without a path.
var ErrPathRequired = errors.New("file: path required")

// Handler implements namespace-based file handling.
type Handler struct{}

// NewHandler creates a new file handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the file namespace.
func (h *Handler) Namespace() string {
	return "file"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionNew, ActionOpen, ActionOpenReadOnly, ActionSave, ActionSaveAs,
		ActionClose, ActionCloseAll:
		return true
	}
	return false
}

// Actions lists the handled action names.
func (h *Handler) Actions() []string {
	return []string{
		ActionClose, ActionCloseAll, ActionNew, ActionOpen,
		ActionOpenReadOnly, ActionSave, ActionSaveAs,
	}
}

// HandleAction processes a file action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionNew:
		return h.newFile(ctx)
	case ActionOpen:
		return h.open(action, ctx, action.Args.ReadOnly)
	case ActionOpenReadOnly:
		return h.open(action, ctx, true)
	case ActionSave:
		return h.save(ctx)
	case ActionSaveAs:
		return h.saveAs(action, ctx)
	case ActionClose:
		return h.close(action, ctx)
	case ActionCloseAll:
		return h.closeAll(action, ctx)
	default:
		return handler.Errorf("unknown file action: %s", action.Name)
	}
}

// newFile opens an untitled tab.
func (h *Handler) newFile(ctx *execctx.ExecutionContext) handler.Result {
	doc := ctx.Workspace.New()
	return handler.Success().
		WithTabsRefresh().
		WithData("id", doc.ID())
}

// open opens a file, or focuses its tab if it is already open.
func (h *Handler) open(action input.Action, ctx *execctx.ExecutionContext, readOnly bool) handler.Result {
	path := action.Args.Path
	if path == "" {
		return handler.Error(ErrPathRequired)
	}

	doc, err := ctx.Workspace.Open(path, readOnly)
	if err != nil {
		return handler.Error(err)
	}

	ctx.Settings.SetLastSession(doc.Path())
	ctx.Settings.AddRecent(doc.Path())

	result := handler.Success().
		WithMessage("Opened: " + doc.Name()).
		WithTabsRefresh().
		WithOptionsRefresh().
		WithData("path", doc.Path())
	return persist(ctx, result)
}

// save writes the current document to its path. An untitled document fails
// with workspace.ErrNoPath; the caller asks for a path and sends saveAs.
func (h *Handler) save(ctx *execctx.ExecutionContext) handler.Result {
	doc, err := ctx.Document()
	if err != nil {
		return handler.Error(err)
	}

	if err := ctx.Workspace.Save(ctx.Workspace.CurrentIndex()); err != nil {
		return handler.Error(err)
	}

	return handler.Success().
		WithMessage("Saved: " + doc.Name()).
		WithTabsRefresh()
}

// saveAs writes the current document to a new path.
func (h *Handler) saveAs(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if _, err := ctx.Document(); err != nil {
		return handler.Error(err)
	}
	if action.Args.Path == "" {
		return handler.Error(ErrPathRequired)
	}

	path, err := ctx.Workspace.SaveAs(ctx.Workspace.CurrentIndex(), action.Args.Path)
	if err != nil {
		return handler.Error(err)
	}

	ctx.Settings.SetLastSession(path)
	ctx.Settings.AddRecent(path)

	result := handler.Success().
		WithMessage("Saved: " + filepath.Base(path)).
		WithTabsRefresh().
		WithOptionsRefresh().
		WithData("path", path)
	return persist(ctx, result)
}

// close closes one tab. A modified document is only closed with Force.
func (h *Handler) close(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	i := ctx.Workspace.CurrentIndex()
	if _, ok := action.Args.Get(IndexKey); ok {
		i = action.Args.GetInt(IndexKey)
	}
	if i < 0 {
		return handler.Error(execctx.ErrNoDocument)
	}

	if err := ctx.Workspace.Close(i, action.Args.Force); err != nil {
		if errors.Is(err, workspace.ErrUnsavedChanges) {
			return handler.Result{
				Status:  handler.StatusCancelled,
				Error:   err,
				Message: "The document has been modified.",
			}
		}
		return handler.Error(err)
	}

	return handler.Success().WithTabsRefresh()
}

// closeAll closes tabs from the first onward and stops at the first
// modified document unless Force is set.
func (h *Handler) closeAll(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Workspace.Len() == 0 {
		return handler.NoOp()
	}

	if err := ctx.Workspace.CloseAll(action.Args.Force); err != nil {
		if errors.Is(err, workspace.ErrUnsavedChanges) {
			return handler.Result{
				Status:  handler.StatusCancelled,
				Error:   err,
				Message: "The document has been modified.",
			}.WithTabsRefresh()
		}
		return handler.Error(err).WithTabsRefresh()
	}

	return handler.Success().WithTabsRefresh()
}

// persist saves the settings record. Failures are logged and noted in the
// status message but do not fail the action.
func persist(ctx *execctx.ExecutionContext, result handler.Result) handler.Result {
	if err := ctx.Persist(); err != nil {
		ctx.Logger.Warn().Err(err).Msg("settings not saved")
		return result.
			WithMessage(result.Message + " (settings not saved)").
			WithData("persistError", err)
	}
	return result
}
