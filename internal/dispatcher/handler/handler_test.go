package handler

import (
	"testing"

	"github.com/dshills/cnbpad/internal/dispatcher/execctx"
	"github.com/dshills/cnbpad/internal/input"
)

func TestHandlerFunc(t *testing.T) {
	called := false
	h := NewHandlerFunc(func(action input.Action, ctx *execctx.ExecutionContext) Result {
		called = true
		return Success()
	})

	result := h.Handle(input.Action{Name: "any"}, execctx.New())
	if !called || !result.IsOK() {
		t.Error("expected function to run and succeed")
	}
	if !h.CanHandle("anything") {
		t.Error("HandlerFunc should accept every action")
	}
	if h.Priority() != 0 {
		t.Errorf("expected priority 0, got %d", h.Priority())
	}
}

func TestHandlerFuncNil(t *testing.T) {
	h := NewHandlerFuncWithPriority(nil, 5)

	if h.Priority() != 5 {
		t.Errorf("expected priority 5, got %d", h.Priority())
	}
	if result := h.Handle(input.Action{}, execctx.New()); !result.IsError() {
		t.Error("expected error for nil function")
	}
}

func TestBaseNamespaceHandler(t *testing.T) {
	h := NewBaseNamespaceHandler("options")
	h.Register("options.toggleWordWrap", func(action input.Action, ctx *execctx.ExecutionContext) Result {
		return SuccessWithMessage("wrapped")
	})
	h.Register("options.setDebug", func(action input.Action, ctx *execctx.ExecutionContext) Result {
		return NoOp()
	})

	if h.Namespace() != "options" {
		t.Errorf("expected options, got %q", h.Namespace())
	}
	if !h.CanHandle("options.toggleWordWrap") || h.CanHandle("options.unknown") {
		t.Error("unexpected CanHandle result")
	}

	result := h.HandleAction(input.Action{Name: "options.toggleWordWrap"}, execctx.New())
	if result.Message != "wrapped" {
		t.Errorf("expected wrapped, got %q", result.Message)
	}

	result = h.HandleAction(input.Action{Name: "options.unknown"}, execctx.New())
	if !result.IsError() {
		t.Error("expected error for unregistered action")
	}

	actions := h.Actions()
	if len(actions) != 2 || actions[0] != "options.setDebug" || actions[1] != "options.toggleWordWrap" {
		t.Errorf("unexpected sorted actions %v", actions)
	}
}

func TestNamespaceAdapter(t *testing.T) {
	base := NewBaseNamespaceHandler("edit")
	base.Register("edit.counts", func(action input.Action, ctx *execctx.ExecutionContext) Result {
		return SuccessWithMessage("counted")
	})

	h := NewNamespaceAdapter(base)
	if !h.CanHandle("edit.counts") {
		t.Error("adapter should delegate CanHandle")
	}
	if h.Priority() != 0 {
		t.Errorf("expected priority 0, got %d", h.Priority())
	}
	if got := h.Handle(input.Action{Name: "edit.counts"}, execctx.New()); got.Message != "counted" {
		t.Errorf("expected counted, got %q", got.Message)
	}
}
