package search

import (
	"errors"
	"fmt"

	"github.com/dshills/cnbpad/internal/dispatcher/execctx"
	"github.com/dshills/cnbpad/internal/dispatcher/handler"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/search"
)

// Action names for search operations.
const (
	ActionFind       = "search.find"       // find first occurrence
	ActionFindNext   = "search.findNext"   // find next occurrence, wrapping
	ActionReplace    = "search.replace"    // replace selected occurrence
	ActionReplaceAll = "search.replaceAll" // replace every occurrence
	ActionDismiss    = "search.dismiss"    // close the bar
)

// Handler implements namespace-based search handling.
type Handler struct{}

// NewHandler creates a new search handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the search namespace.
func (h *Handler) Namespace() string {
	return "search"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionFind, ActionFindNext, ActionReplace, ActionReplaceAll, ActionDismiss:
		return true
	}
	return false
}

// Actions lists the handled action names.
func (h *Handler) Actions() []string {
	return []string{ActionDismiss, ActionFind, ActionFindNext, ActionReplace, ActionReplaceAll}
}

// HandleAction processes a search action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForSearch(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionFind:
		return h.find(action, ctx, false)
	case ActionFindNext:
		return h.find(action, ctx, true)
	case ActionReplace:
		return h.replace(action, ctx)
	case ActionReplaceAll:
		return h.replaceAll(action, ctx)
	case ActionDismiss:
		ctx.Search.Invalidate()
		return handler.Success()
	default:
		return handler.Errorf("unknown search action: %s", action.Name)
	}
}

// find selects the first match, or the next one when next is set.
// Read-only documents may be searched.
func (h *Handler) find(action input.Action, ctx *execctx.ExecutionContext, next bool) handler.Result {
	doc, err := ctx.Document()
	if err != nil {
		return handler.Error(err)
	}

	query := action.Args.Query
	var r search.Range
	if next {
		r, err = ctx.Search.FindNext(doc, query)
	} else {
		r, err = ctx.Search.Find(doc, query)
	}
	if err != nil {
		return notFound(query, err)
	}

	return handler.Success().
		WithMessage(foundMessage(query)).
		WithSelection(r.Start, r.End).
		WithData("matches", len(ctx.Search.Highlights()))
}

// replace replaces the selected match. Without a selection for the query it
// behaves like find.
func (h *Handler) replace(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	doc, err := ctx.EditableDocument()
	if err != nil {
		return handler.Error(err)
	}

	query, replacement := action.Args.Query, action.Args.Replacement
	res, err := ctx.Search.Replace(doc, query, replacement)
	switch {
	case errors.Is(err, search.ErrStaleMatch):
		ctx.Logger.Debug().Str("query", query).Msg("selection no longer matches query")
		result := handler.NoOpWithMessage(fmt.Sprintf("Selection no longer matches '%s'", query))
		if res.HasSelection {
			result = result.WithSelection(res.Selection.Start, res.Selection.End)
		}
		return result
	case err != nil:
		return notFound(query, err)
	case !res.Replaced:
		return handler.Success().
			WithMessage(foundMessage(query)).
			WithSelection(res.Selection.Start, res.Selection.End)
	}

	result := handler.Success().
		WithMessage(fmt.Sprintf("Replaced '%s' with '%s'", query, replacement)).
		WithContentReload()
	if res.HasSelection {
		result = result.WithSelection(res.Selection.Start, res.Selection.End)
	}
	return result
}

// replaceAll replaces every occurrence of the query.
func (h *Handler) replaceAll(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	doc, err := ctx.EditableDocument()
	if err != nil {
		return handler.Error(err)
	}

	query, replacement := action.Args.Query, action.Args.Replacement
	n, err := ctx.Search.ReplaceAll(doc, query, replacement)
	if err != nil {
		return notFound(query, err)
	}

	return handler.Success().
		WithMessage(fmt.Sprintf("Replaced %d occurrence(s) of '%s' with '%s'", n, query, replacement)).
		WithContentReload().
		WithData("count", n)
}

func foundMessage(query string) string {
	return fmt.Sprintf("Found '%s'", query)
}

// notFound turns ErrNotFound into a status message. Other errors are
// returned as errors.
func notFound(query string, err error) handler.Result {
	if errors.Is(err, search.ErrNotFound) {
		return handler.NoOpWithMessage(fmt.Sprintf("'%s' not found", query))
	}
	return handler.Error(err)
}
