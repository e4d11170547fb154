package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/dshills/cnbpad/internal/dispatcher/execctx"
	"github.com/dshills/cnbpad/internal/dispatcher/handler"
	"github.com/dshills/cnbpad/internal/dispatcher/handlers/file"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/settings"
	"github.com/dshills/cnbpad/internal/workspace"
)

// mockStore records saved snapshots.
type mockStore struct {
	saves []*settings.Record
	err   error
}

func (m *mockStore) Save(_ context.Context, rec *settings.Record) error {
	if m.err != nil {
		return m.err
	}
	m.saves = append(m.saves, rec.Clone())
	return nil
}

func newContext() (*execctx.ExecutionContext, *mockStore) {
	store := &mockStore{}
	ctx := execctx.New().
		WithWorkspace(workspace.New()).
		WithSettings(settings.Defaults(), store)
	return ctx, store
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHandler_Namespace(t *testing.T) {
	h := file.NewHandler()
	if h.Namespace() != "file" {
		t.Errorf("expected namespace 'file', got %q", h.Namespace())
	}
}

func TestHandler_CanHandle(t *testing.T) {
	h := file.NewHandler()

	tests := []struct {
		action   string
		expected bool
	}{
		{file.ActionNew, true},
		{file.ActionOpen, true},
		{file.ActionOpenReadOnly, true},
		{file.ActionSave, true},
		{file.ActionSaveAs, true},
		{file.ActionClose, true},
		{file.ActionCloseAll, true},
		{"file.saveAll", false},
		{"search.find", false},
	}

	for _, tt := range tests {
		if got := h.CanHandle(tt.action); got != tt.expected {
			t.Errorf("CanHandle(%q) = %v, want %v", tt.action, got, tt.expected)
		}
	}
}

func TestHandler_New(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()

	result := h.HandleAction(input.Action{Name: file.ActionNew}, ctx)

	if result.Status != handler.StatusOK {
		t.Fatalf("expected StatusOK, got %v", result.Status)
	}
	if ctx.Workspace.Len() != 1 {
		t.Errorf("expected 1 document, got %d", ctx.Workspace.Len())
	}
	if !result.ViewUpdate.Tabs {
		t.Error("expected tabs refresh")
	}
}

func TestHandler_Open(t *testing.T) {
	h := file.NewHandler()
	ctx, store := newContext()
	path := writeFile(t, t.TempDir(), "notes.txt", "hello")

	result := h.HandleAction(input.Action{Name: file.ActionOpen}.WithPath(path), ctx)

	if result.Status != handler.StatusOK {
		t.Fatalf("expected StatusOK, got %v (%v)", result.Status, result.Error)
	}
	if result.Message != "Opened: notes.txt" {
		t.Errorf("unexpected message %q", result.Message)
	}

	doc := ctx.Workspace.Current()
	if doc == nil || doc.Content() != "hello" {
		t.Fatalf("expected document with content, got %v", doc)
	}
	if doc.ReadOnly() {
		t.Error("expected editable document")
	}

	last, ok := ctx.Settings.LastSession()
	if !ok || last != doc.Path() {
		t.Errorf("last_session = %q, want %q", last, doc.Path())
	}
	if got := ctx.Settings.RecentFiles(); !slices.Equal(got, []string{doc.Path()}) {
		t.Errorf("recent files = %v", got)
	}
	if len(store.saves) != 1 {
		t.Errorf("expected settings persisted once, got %d", len(store.saves))
	}
}

func TestHandler_OpenReadOnly(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()
	path := writeFile(t, t.TempDir(), "ro.txt", "x")

	result := h.HandleAction(input.Action{Name: file.ActionOpenReadOnly}.WithPath(path), ctx)
	if result.IsError() {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if !ctx.Workspace.Current().ReadOnly() {
		t.Error("expected read-only document")
	}
}

func TestHandler_OpenNotFound(t *testing.T) {
	h := file.NewHandler()
	ctx, store := newContext()

	result := h.HandleAction(input.Action{Name: file.ActionOpen}.WithPath(filepath.Join(t.TempDir(), "missing.txt")), ctx)

	if !errors.Is(result.Error, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", result.Error)
	}
	if _, ok := ctx.Settings.LastSession(); ok {
		t.Error("last_session must not change on failed open")
	}
	if len(store.saves) != 0 {
		t.Error("settings must not be persisted on failed open")
	}
}

func TestHandler_OpenNoPath(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()

	result := h.HandleAction(input.Action{Name: file.ActionOpen}, ctx)
	if !errors.Is(result.Error, file.ErrPathRequired) {
		t.Errorf("expected ErrPathRequired, got %v", result.Error)
	}
}

func TestHandler_OpenPersistFailure(t *testing.T) {
	h := file.NewHandler()
	ctx, store := newContext()
	store.err = errors.New("disk full")
	path := writeFile(t, t.TempDir(), "a.txt", "a")

	result := h.HandleAction(input.Action{Name: file.ActionOpen}.WithPath(path), ctx)

	if result.Status != handler.StatusOK {
		t.Fatalf("persist failure must not fail open, got %v", result.Status)
	}
	if result.Message != "Opened: a.txt (settings not saved)" {
		t.Errorf("unexpected message %q", result.Message)
	}
}

func TestHandler_Save(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()
	path := writeFile(t, t.TempDir(), "a.txt", "old")

	h.HandleAction(input.Action{Name: file.ActionOpen}.WithPath(path), ctx)
	ctx.Workspace.Current().SetContent("new")

	result := h.HandleAction(input.Action{Name: file.ActionSave}, ctx)
	if result.Status != handler.StatusOK {
		t.Fatalf("expected StatusOK, got %v (%v)", result.Status, result.Error)
	}
	if result.Message != "Saved: a.txt" {
		t.Errorf("unexpected message %q", result.Message)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("file content = %q, want %q", data, "new")
	}
	if ctx.Workspace.Current().Modified() {
		t.Error("expected document to be saved")
	}
}

func TestHandler_SaveUntitled(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()
	h.HandleAction(input.Action{Name: file.ActionNew}, ctx)

	result := h.HandleAction(input.Action{Name: file.ActionSave}, ctx)
	if !errors.Is(result.Error, workspace.ErrNoPath) {
		t.Errorf("expected ErrNoPath, got %v", result.Error)
	}
}

func TestHandler_SaveReadOnly(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()
	path := writeFile(t, t.TempDir(), "ro.txt", "x")
	h.HandleAction(input.Action{Name: file.ActionOpenReadOnly}.WithPath(path), ctx)

	result := h.HandleAction(input.Action{Name: file.ActionSave}, ctx)
	if !errors.Is(result.Error, workspace.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", result.Error)
	}
}

func TestHandler_SaveNoDocument(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()

	result := h.HandleAction(input.Action{Name: file.ActionSave}, ctx)
	if !errors.Is(result.Error, execctx.ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", result.Error)
	}
}

func TestHandler_SaveAs(t *testing.T) {
	h := file.NewHandler()
	ctx, store := newContext()
	h.HandleAction(input.Action{Name: file.ActionNew}, ctx)
	ctx.Workspace.Current().SetContent("draft")

	target := filepath.Join(t.TempDir(), "draft")
	result := h.HandleAction(input.Action{Name: file.ActionSaveAs}.WithPath(target), ctx)

	if result.Status != handler.StatusOK {
		t.Fatalf("expected StatusOK, got %v (%v)", result.Status, result.Error)
	}
	want := target + ".txt"
	if got, _ := result.GetData("path"); got != want {
		t.Errorf("path = %v, want %q", got, want)
	}
	if result.Message != "Saved: draft.txt" {
		t.Errorf("unexpected message %q", result.Message)
	}
	if last, _ := ctx.Settings.LastSession(); last != want {
		t.Errorf("last_session = %q, want %q", last, want)
	}
	if got := ctx.Settings.RecentFiles(); !slices.Equal(got, []string{want}) {
		t.Errorf("recent files = %v", got)
	}
	if len(store.saves) != 1 {
		t.Errorf("expected one persist, got %d", len(store.saves))
	}
	if ctx.Workspace.Current().Name() != "draft.txt" {
		t.Errorf("expected tab renamed, got %q", ctx.Workspace.Current().Name())
	}
}

func TestHandler_Close(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()
	h.HandleAction(input.Action{Name: file.ActionNew}, ctx)

	result := h.HandleAction(input.Action{Name: file.ActionClose}, ctx)
	if result.Status != handler.StatusOK {
		t.Fatalf("expected StatusOK, got %v", result.Status)
	}
	if ctx.Workspace.Len() != 0 {
		t.Errorf("expected no documents, got %d", ctx.Workspace.Len())
	}
}

func TestHandler_CloseModified(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()
	h.HandleAction(input.Action{Name: file.ActionNew}, ctx)
	ctx.Workspace.Current().SetContent("unsaved")

	result := h.HandleAction(input.Action{Name: file.ActionClose}, ctx)
	if result.Status != handler.StatusCancelled {
		t.Errorf("expected StatusCancelled, got %v", result.Status)
	}
	if !errors.Is(result.Error, workspace.ErrUnsavedChanges) {
		t.Errorf("expected ErrUnsavedChanges, got %v", result.Error)
	}
	if ctx.Workspace.Len() != 1 {
		t.Error("modified document must stay open")
	}

	result = h.HandleAction(input.Action{Name: file.ActionClose}.WithForce(), ctx)
	if result.Status != handler.StatusOK || ctx.Workspace.Len() != 0 {
		t.Errorf("expected forced close, got %v with %d docs", result.Status, ctx.Workspace.Len())
	}
}

func TestHandler_CloseByIndex(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()
	h.HandleAction(input.Action{Name: file.ActionNew}, ctx)
	first := ctx.Workspace.Current()
	h.HandleAction(input.Action{Name: file.ActionNew}, ctx)

	action := input.Action{
		Name: file.ActionClose,
		Args: input.ActionArgs{Extra: map[string]any{file.IndexKey: 0}},
	}
	h.HandleAction(action, ctx)

	if ctx.Workspace.Len() != 1 {
		t.Fatalf("expected 1 document, got %d", ctx.Workspace.Len())
	}
	if ctx.Workspace.Index(first.ID()) != -1 {
		t.Error("expected first document closed")
	}
}

func TestHandler_CloseAllStopsAtModified(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()
	h.HandleAction(input.Action{Name: file.ActionNew}, ctx)
	h.HandleAction(input.Action{Name: file.ActionNew}, ctx)
	ctx.Workspace.Current().SetContent("dirty")
	h.HandleAction(input.Action{Name: file.ActionNew}, ctx)

	result := h.HandleAction(input.Action{Name: file.ActionCloseAll}, ctx)

	if result.Status != handler.StatusCancelled {
		t.Errorf("expected StatusCancelled, got %v", result.Status)
	}
	if ctx.Workspace.Len() != 2 {
		t.Errorf("expected 2 documents left, got %d", ctx.Workspace.Len())
	}

	result = h.HandleAction(input.Action{Name: file.ActionCloseAll}.WithForce(), ctx)
	if result.Status != handler.StatusOK || ctx.Workspace.Len() != 0 {
		t.Errorf("expected all closed, got %v with %d docs", result.Status, ctx.Workspace.Len())
	}
}

func TestHandler_CloseAllEmpty(t *testing.T) {
	h := file.NewHandler()
	ctx, _ := newContext()

	result := h.HandleAction(input.Action{Name: file.ActionCloseAll}, ctx)
	if result.Status != handler.StatusNoOp {
		t.Errorf("expected StatusNoOp, got %v", result.Status)
	}
}

func TestHandler_MissingWorkspace(t *testing.T) {
	h := file.NewHandler()

	result := h.HandleAction(input.Action{Name: file.ActionNew}, execctx.New())
	if !errors.Is(result.Error, execctx.ErrMissingWorkspace) {
		t.Errorf("expected ErrMissingWorkspace, got %v", result.Error)
	}
}
