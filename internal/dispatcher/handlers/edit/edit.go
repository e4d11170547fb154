// Package edit provides handlers for status-bar queries about the current
// document.
package edit

import (
	"github.com/dshills/cnbpad/internal/dispatcher/execctx"
	"github.com/dshills/cnbpad/internal/dispatcher/handler"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/workspace"
)

// Action names for edit operations.
const (
	ActionCounts = "edit.counts" // word and character counts
	ActionStatus = "edit.status" // file status text
)

// Handler implements the edit namespace.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates a new edit handler.
func NewHandler() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("edit")}
	h.Register(ActionCounts, h.counts)
	h.Register(ActionStatus, h.status)
	return h
}

// counts reports zero counts when no document is open.
func (h *Handler) counts(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	var c workspace.Counts
	if doc, err := ctx.Document(); err == nil {
		c = doc.Counts()
	}
	return handler.SuccessWithMessage(c.String()).
		WithData("words", c.Words).
		WithData("characters", c.Characters)
}

func (h *Handler) status(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Workspace == nil {
		return handler.Error(execctx.ErrMissingWorkspace)
	}
	return handler.SuccessWithMessage(ctx.Workspace.FileStatus()).
		WithData("menu", ctx.Workspace.MenuState())
}
