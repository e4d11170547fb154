package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/dshills/cnbpad/internal/dispatcher/execctx"
	"github.com/dshills/cnbpad/internal/dispatcher/handler"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/search"
	"github.com/dshills/cnbpad/internal/settings"
	"github.com/dshills/cnbpad/internal/workspace"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	// Core components
	registry *Registry
	router   *Router

	// Notepad state handed to handlers
	workspace *workspace.Workspace
	settings  *settings.Record
	store     execctx.SettingsStore
	search    *search.Session

	// Configuration
	config Config

	// Metrics
	metrics *Metrics

	// Hooks
	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		search:   search.NewSession(),
		config:   config,
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	if config.LogActions {
		hook := NewLoggingHook(config.Logger)
		d.preHooks = append(d.preHooks, hook)
		d.postHooks = append(d.postHooks, hook)
	}

	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetWorkspace sets the open documents.
func (d *Dispatcher) SetWorkspace(ws *workspace.Workspace) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.workspace = ws
}

// SetSettings sets the settings record and the store that persists it.
func (d *Dispatcher) SetSettings(rec *settings.Record, store execctx.SettingsStore) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings = rec
	d.store = store
}

// SetSearch replaces the find/replace session.
func (d *Dispatcher) SetSearch(s *search.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.search = s
}

// Workspace returns the open documents.
func (d *Dispatcher) Workspace() *workspace.Workspace {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.workspace
}

// Settings returns the settings record.
func (d *Dispatcher) Settings() *settings.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// Search returns the find/replace session.
func (d *Dispatcher) Search() *search.Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.search
}

// Dispatch executes an action synchronously.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	return d.DispatchContext(context.Background(), action)
}

// DispatchContext executes an action with c bounding blocking work.
func (d *Dispatcher) DispatchContext(c context.Context, action input.Action) handler.Result {
	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}

	startTime := time.Now()

	// Build execution context
	ctx := d.buildContext(c)

	// Run pre-dispatch hooks
	if !d.runPreHooks(&action, ctx) {
		result := handler.CancelledWithMessage("cancelled by hook")
		result.Error = ErrActionCancelled
		return result
	}

	// Find handler
	h := d.registry.Get(action.Name)
	if h == nil {
		h = d.router.Route(action.Name)
	}
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	// Execute handler
	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, action, ctx)
	} else {
		result = h.Handle(action, ctx)
	}

	// Run post-dispatch hooks
	d.runPostHooks(&action, ctx, &result)

	// Record metrics
	if d.metrics != nil {
		d.metrics.RecordDispatch(action.Name, time.Since(startTime), result.Status)
	}

	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			d.config.Logger.Error().
				Str("action", action.Name).
				Interface("panic", r).
				Str("stack", string(stack[:n])).
				Msg("handler panic")

			result = handler.Error(fmt.Errorf("%w for %s: %v", ErrPanic, action.Name, r))

			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()

	return h.Handle(action, ctx)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext(c context.Context) *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx := execctx.New().
		WithWorkspace(d.workspace).
		WithSettings(d.settings, d.store).
		WithSearch(d.search).
		WithLogger(d.config.Logger)
	if c != nil {
		ctx.Context = c
	}
	return ctx
}

// Register registers a handler for an exact action name. Exact
// registrations take precedence over namespace handlers.
func (d *Dispatcher) Register(actionName string, h handler.Handler) {
	d.registry.Register(actionName, h)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn handler.Func) {
	d.registry.Register(actionName, handler.NewHandlerFunc(fn))
}

// RegisterNamespace registers a namespace handler under its own namespace.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h)
}

// UnregisterHandler removes a handler for an action name.
func (d *Dispatcher) UnregisterHandler(actionName string) {
	d.registry.Unregister(actionName)
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// runPreHooks runs all pre-dispatch hooks.
// Returns false if any hook cancels the action.
func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := slices.Clone(d.preHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := slices.Clone(d.postHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// Actions returns every dispatchable action name, sorted.
func (d *Dispatcher) Actions() []string {
	names := append(d.registry.List(), d.router.Actions()...)
	slices.Sort(names)
	return slices.Compact(names)
}

// CanDispatch reports whether a handler exists for the action name.
func (d *Dispatcher) CanDispatch(actionName string) bool {
	return d.registry.Has(actionName) || d.router.Route(actionName) != nil
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
