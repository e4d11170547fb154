// Package options provides handlers for the Options menu.
//
// Every option is backed by the settings record and persisted before the
// handler returns.
package options

import (
	"fmt"

	"github.com/dshills/cnbpad/internal/dispatcher/execctx"
	"github.com/dshills/cnbpad/internal/dispatcher/handler"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/settings"
)

// Action names for option operations.
const (
	ActionToggleWordWrap   = "options.toggleWordWrap"
	ActionToggleReopenLast = "options.toggleReopenLast"
	ActionToggleTheme      = "options.toggleTheme"
	ActionSetMaxRecent     = "options.setMaxRecent" // Args.Int is the new bound
	ActionSetDebug         = "options.setDebug"     // Extra[EnabledKey] is the new flag
)

// EnabledKey carries the flag for ActionSetDebug in ActionArgs.Extra.
const EnabledKey = "enabled"

// Handler implements the options namespace.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates a new options handler.
func NewHandler() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("options")}
	h.Register(ActionToggleWordWrap, withSettings(h.toggleWordWrap))
	h.Register(ActionToggleReopenLast, withSettings(h.toggleReopenLast))
	h.Register(ActionToggleTheme, withSettings(h.toggleTheme))
	h.Register(ActionSetMaxRecent, withSettings(h.setMaxRecent))
	h.Register(ActionSetDebug, withSettings(h.setDebug))
	return h
}

func withSettings(fn handler.Func) handler.Func {
	return func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		if ctx.Settings == nil {
			return handler.Error(execctx.ErrMissingSettings)
		}
		return fn(action, ctx)
	}
}

func (h *Handler) toggleWordWrap(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	on := !ctx.Settings.WordWrap()
	ctx.Settings.SetWordWrap(on)
	return persist(ctx, handler.Success().WithData("wordWrap", on))
}

func (h *Handler) toggleReopenLast(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	on := !ctx.Settings.ReopenLast()
	ctx.Settings.SetReopenLast(on)
	return persist(ctx, handler.Success().WithData("reopenLast", on))
}

func (h *Handler) toggleTheme(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
	theme := settings.ThemeDark
	if ctx.Settings.Theme() == settings.ThemeDark {
		theme = settings.ThemeLight
	}
	ctx.Settings.SetTheme(theme)
	return persist(ctx, handler.Success().WithData("theme", theme))
}

// setMaxRecent clamps the bound to [0,10] and truncates the recent files.
func (h *Handler) setMaxRecent(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	ctx.Settings.SetMaxRecent(action.Args.Int)
	n := ctx.Settings.MaxRecentFiles()
	return persist(ctx, handler.Success().WithData("maxRecent", n))
}

func (h *Handler) setDebug(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	on := action.Args.GetBool(EnabledKey)
	if on == ctx.Settings.DebugEnabled() && ctx.Settings.Has(settings.KeyDebugEnabled) {
		return handler.NoOp().WithData("debug", on)
	}
	ctx.Settings.SetDebugEnabled(on)

	msg := "Debug logging disabled"
	if on {
		msg = "Debug logging enabled"
	}
	return persist(ctx, handler.SuccessWithMessage(msg).WithData("debug", on))
}

func persist(ctx *execctx.ExecutionContext, result handler.Result) handler.Result {
	result = result.WithOptionsRefresh()
	if err := ctx.Persist(); err != nil {
		ctx.Logger.Warn().Err(err).Msg("settings not saved")
		return result.
			WithMessage(fmt.Sprintf("Settings not saved: %v", err)).
			WithData("persistError", err)
	}
	return result
}
