// Package execctx provides the execution context for action handlers.
package execctx

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dshills/cnbpad/internal/search"
	"github.com/dshills/cnbpad/internal/settings"
	"github.com/dshills/cnbpad/internal/workspace"
)

// SettingsStore persists the settings record. Handlers call it after every
// change to a tracked option.
type SettingsStore interface {
	Save(ctx context.Context, rec *settings.Record) error
}

// ExecutionContext provides context for action execution.
// It contains references to the notepad state handlers operate on.
type ExecutionContext struct {
	// Context bounds blocking work such as settings writes.
	Context context.Context

	// Workspace holds the open documents.
	Workspace *workspace.Workspace

	// Settings is the in-memory settings record.
	Settings *settings.Record

	// Store persists Settings. Nil disables persistence.
	Store SettingsStore

	// Search is the find/replace session.
	Search *search.Session

	// Logger receives handler diagnostics.
	Logger zerolog.Logger

	// Data holds handler-specific context data.
	Data map[string]any
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Context: context.Background(),
		Logger:  zerolog.Nop(),
		Data:    make(map[string]any),
	}
}

// WithWorkspace returns the context with the workspace set.
func (ctx *ExecutionContext) WithWorkspace(ws *workspace.Workspace) *ExecutionContext {
	ctx.Workspace = ws
	return ctx
}

// WithSettings returns the context with the settings record and store set.
func (ctx *ExecutionContext) WithSettings(rec *settings.Record, store SettingsStore) *ExecutionContext {
	ctx.Settings = rec
	ctx.Store = store
	return ctx
}

// WithSearch returns the context with the search session set.
func (ctx *ExecutionContext) WithSearch(s *search.Session) *ExecutionContext {
	ctx.Search = s
	return ctx
}

// WithLogger returns the context with the logger set.
func (ctx *ExecutionContext) WithLogger(l zerolog.Logger) *ExecutionContext {
	ctx.Logger = l
	return ctx
}

// Document returns the current document.
func (ctx *ExecutionContext) Document() (*workspace.Document, error) {
	if ctx.Workspace == nil {
		return nil, ErrMissingWorkspace
	}
	doc := ctx.Workspace.Current()
	if doc == nil {
		return nil, ErrNoDocument
	}
	return doc, nil
}

// EditableDocument returns the current document if it may be modified.
func (ctx *ExecutionContext) EditableDocument() (*workspace.Document, error) {
	doc, err := ctx.Document()
	if err != nil {
		return nil, err
	}
	if doc.ReadOnly() {
		return nil, ErrReadOnly
	}
	return doc, nil
}

// Persist saves the settings record. It is a no-op without a store.
func (ctx *ExecutionContext) Persist() error {
	if ctx.Settings == nil {
		return ErrMissingSettings
	}
	if ctx.Store == nil {
		return nil
	}
	c := ctx.Context
	if c == nil {
		c = context.Background()
	}
	return ctx.Store.Save(c, ctx.Settings)
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Validate checks that the context has the components every handler needs.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Workspace == nil {
		return ErrMissingWorkspace
	}
	if ctx.Settings == nil {
		return ErrMissingSettings
	}
	return nil
}

// ValidateForSearch checks that the context can run a search action.
func (ctx *ExecutionContext) ValidateForSearch() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Search == nil {
		return ErrMissingSearch
	}
	return nil
}
