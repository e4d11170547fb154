package dispatcher_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/dshills/cnbpad/internal/dispatcher"
	"github.com/dshills/cnbpad/internal/dispatcher/execctx"
	"github.com/dshills/cnbpad/internal/dispatcher/handler"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/workspace"
)

func TestNewWithDefaults(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	if d == nil {
		t.Fatal("expected non-nil dispatcher")
	}
	if d.Registry() == nil {
		t.Error("expected non-nil registry")
	}
	if d.Router() == nil {
		t.Error("expected non-nil router")
	}
	if d.Search() == nil {
		t.Error("expected a search session")
	}

	// Metrics should be nil by default
	if d.Metrics() != nil {
		t.Error("expected nil metrics by default")
	}
}

func TestNewWithMetrics(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())

	if d.Metrics() == nil {
		t.Error("expected non-nil metrics when enabled")
	}
}

func TestDispatchNoHandler(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	result := d.Dispatch(input.Action{Name: "unknown.action"})

	if result.Status != handler.StatusError {
		t.Errorf("expected StatusError for unknown action, got %v", result.Status)
	}
	if !errors.Is(result.Error, dispatcher.ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %v", result.Error)
	}
}

func TestDispatchEmptyName(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	result := d.Dispatch(input.Action{})
	if !errors.Is(result.Error, dispatcher.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", result.Error)
	}
}

func TestRegisterHandler(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	called := false
	d.RegisterHandlerFunc("file.save", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})

	result := d.Dispatch(input.Action{Name: "file.save"})

	if !called {
		t.Error("expected handler to be called")
	}
	if result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
}

func TestRegisterNamespace(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterNamespace(fileNamespace())

	result := d.Dispatch(input.Action{Name: "file.new"})
	if result.Message != "new" {
		t.Errorf("expected message 'new', got %q", result.Message)
	}
	if !d.CanDispatch("file.open") {
		t.Error("expected file.open to be dispatchable")
	}
	if d.CanDispatch("file.print") {
		t.Error("expected file.print to be undispatchable")
	}
}

func TestUnregisterHandler(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandlerFunc("file.save", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})
	d.UnregisterHandler("file.save")

	result := d.Dispatch(input.Action{Name: "file.save"})
	if result.Status != handler.StatusError {
		t.Errorf("expected StatusError after unregister, got %v", result.Status)
	}
}

func TestPreDispatchHook(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	var seen string
	d.RegisterHandlerFunc("search.find", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		seen = action.Args.Query
		return handler.Success()
	})
	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(action *input.Action, ctx *execctx.ExecutionContext) bool {
		action.Args.Query = strings.ToUpper(action.Args.Query)
		return true
	}))

	d.Dispatch(input.Action{Name: "search.find"}.WithQuery("cat"))

	if seen != "CAT" {
		t.Errorf("expected hook to rewrite query, got %q", seen)
	}
}

func TestPreDispatchHookCancel(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	called := false
	d.RegisterHandlerFunc("file.save", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})
	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(action *input.Action, ctx *execctx.ExecutionContext) bool {
		return false
	}))

	result := d.Dispatch(input.Action{Name: "file.save"})

	if called {
		t.Error("expected handler not to be called")
	}
	if result.Status != handler.StatusCancelled {
		t.Errorf("expected StatusCancelled, got %v", result.Status)
	}
	if !errors.Is(result.Error, dispatcher.ErrActionCancelled) {
		t.Errorf("expected ErrActionCancelled, got %v", result.Error)
	}
}

func TestPostDispatchHook(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandlerFunc("file.save", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("saved")
	})
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
		result.Message += "!"
	}))

	result := d.Dispatch(input.Action{Name: "file.save"})
	if result.Message != "saved!" {
		t.Errorf("expected post hook to modify result, got %q", result.Message)
	}
}

func TestDispatchWithWorkspace(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	ws := workspace.New()
	ws.New()
	d.SetWorkspace(ws)

	var got *workspace.Document
	d.RegisterHandlerFunc("edit.peek", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		doc, err := ctx.Document()
		if err != nil {
			return handler.Error(err)
		}
		got = doc
		if ctx.Search != d.Search() {
			return handler.Errorf("search session not passed through")
		}
		return handler.Success()
	})

	result := d.Dispatch(input.Action{Name: "edit.peek"})
	if result.IsError() {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if got != ws.Current() {
		t.Error("expected handler to see the current document")
	}
}

func TestPanicRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("file.boom", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		panic("boom")
	})

	result := d.Dispatch(input.Action{Name: "file.boom"})

	if result.Status != handler.StatusError {
		t.Errorf("expected StatusError after panic, got %v", result.Status)
	}
	if !errors.Is(result.Error, dispatcher.ErrPanic) {
		t.Errorf("expected ErrPanic, got %v", result.Error)
	}
	if d.Metrics().TotalPanics() != 1 {
		t.Errorf("expected 1 panic recorded, got %d", d.Metrics().TotalPanics())
	}
}

func TestNoPanicRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithPanicRecovery(false))
	d.RegisterHandlerFunc("file.boom", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		panic("boom")
	})

	defer func() {
		if recover() == nil {
			t.Error("expected panic to propagate")
		}
	}()
	d.Dispatch(input.Action{Name: "file.boom"})
}

func TestMetricsRecording(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("file.save", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})
	d.RegisterHandlerFunc("file.fail", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Errorf("failed")
	})

	for range 3 {
		d.Dispatch(input.Action{Name: "file.save"})
	}
	d.Dispatch(input.Action{Name: "file.fail"})

	m := d.Metrics()
	if m.TotalDispatches() != 4 {
		t.Errorf("expected 4 dispatches, got %d", m.TotalDispatches())
	}
	if m.TotalErrors() != 1 {
		t.Errorf("expected 1 error, got %d", m.TotalErrors())
	}
	stats := m.ActionStats("file.save")
	if stats == nil {
		t.Fatal("expected stats for file.save")
	}
	if stats.DispatchCount != 3 {
		t.Errorf("expected 3 file.save dispatches, got %d", stats.DispatchCount)
	}
}

func TestRegistryPrecedence(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterNamespace(fileNamespace())
	d.RegisterHandlerFunc("file.new", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("exact")
	})

	result := d.Dispatch(input.Action{Name: "file.new"})
	if result.Message != "exact" {
		t.Errorf("expected exact registration to win, got %q", result.Message)
	}
}

func TestActions(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterNamespace(fileNamespace())
	d.RegisterHandlerFunc("file.new", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})
	d.RegisterHandlerFunc("edit.counts", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})

	want := []string{"edit.counts", "file.new", "file.open"}
	if got := d.Actions(); !slices.Equal(got, want) {
		t.Errorf("Actions() = %v, want %v", got, want)
	}
}
