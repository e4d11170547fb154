package settings

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", FileName("test"))
	s := Open(path, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rec.Equal(Defaults()) {
		t.Errorf("expected defaults, got keys %v", rec.Keys())
	}
	if s.Exists() {
		t.Error("expected Load not to create the store")
	}
}

func TestSaveCreatesStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, Defaults()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.Exists() {
		t.Error("expected Save to create the store")
	}
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := Defaults()
	rec.SetWordWrap(true)
	rec.SetReopenLast(false)
	rec.SetDebugEnabled(true)
	rec.SetLastSession("/home/u/notes.txt")
	rec.SetMaxRecent(3)
	rec.AddRecent("/a")
	rec.AddRecent("/b")
	rec.SetOpenFiles([]string{"/a", "/c"})
	rec.SetString(KeyVersion, "1.4.0")
	rec.SetString(KeyDate, "2024-05-01")
	rec.SetString(KeyLastChecked, "2024-05-02T10:00:00Z")

	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A second store reads from disk, not from memory.
	other := Open(s.Path())
	defer other.Close()

	got, err := other.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Equal(rec) {
		t.Errorf("round trip mismatch:\n got  %v\n want %v", got.values, rec.values)
	}
	if !got.WordWrap() || got.ReopenLast() || !got.DebugEnabled() {
		t.Error("boolean coercion lost in round trip")
	}
	if raw, _ := got.Raw(KeyWordWrap); raw != "True" {
		t.Errorf("expected word_wrap stored as \"True\", got %q", raw)
	}
	if !reflect.DeepEqual(got.RecentFiles(), []string{"/b", "/a"}) {
		t.Errorf("unexpected recent files %v", got.RecentFiles())
	}
	if got.MaxRecentFiles() != 3 {
		t.Errorf("expected max_recent_files 3, got %d", got.MaxRecentFiles())
	}
}

func TestSaveLoadIsStable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := Defaults()
	rec.AddRecent("/x")
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	first, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("save(load()) changed state: %v vs %v", first.values, second.values)
	}
}

func TestLoadKeepsMissingKeysAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	partial := NewRecord()
	partial.SetWordWrap(true)
	if err := s.Save(ctx, partial); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Has(KeyReopenLast) {
		t.Error("expected reopen_last to stay absent")
	}
	if !got.ReopenLast() {
		t.Error("expected caller default for absent reopen_last")
	}
}

func TestSaveDoesNotDeleteUnknownKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := NewRecord()
	first.SetString("window_geometry", "800x600")
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := NewRecord()
	second.SetWordWrap(true)
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.String("window_geometry", "") != "800x600" {
		t.Error("expected earlier key to survive an upsert")
	}
}

func TestSaveClampsMaxRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := NewRecord()
	// Bypass setter clamping.
	rec.values[KeyMaxRecentFiles] = "25"
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	db, err := sql.Open(driverName, s.Path())
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var value string
	if err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, KeyMaxRecentFiles).Scan(&value); err != nil {
		t.Fatalf("query: %v", err)
	}
	if value != "10" {
		t.Errorf("expected persisted value 10, got %q", value)
	}
}

func TestStoreAddRecentPersists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec, _ := s.Load(ctx)
	if err := s.SetMaxRecent(ctx, rec, 2); err != nil {
		t.Fatalf("SetMaxRecent: %v", err)
	}
	for _, p := range []string{"a", "b", "c"} {
		if err := s.AddRecent(ctx, rec, p); err != nil {
			t.Fatalf("AddRecent: %v", err)
		}
	}

	got, err := Open(s.Path()).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got.RecentFiles(), []string{"c", "b"}) {
		t.Errorf("expected [c b], got %v", got.RecentFiles())
	}
}

func TestLoadCorruptFallsBackAndBacksUp(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	s := newTestStore(t, WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	garbage := strings.Repeat("this is not a database file. ", 64)
	if err := os.WriteFile(s.Path(), []byte(garbage), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Load(ctx)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	if !rec.Equal(Defaults()) {
		t.Error("expected defaults on corrupt store")
	}

	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StorageError, got %T", err)
	}
	wantBackup := s.Path() + ".corrupt-1700000000"
	if serr.Backup != wantBackup {
		t.Errorf("expected backup %q, got %q", wantBackup, serr.Backup)
	}
	data, rerr := os.ReadFile(wantBackup)
	if rerr != nil || string(data) != garbage {
		t.Error("expected original bytes preserved in backup")
	}

	// The next save recreates a working store.
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save after corrupt: %v", err)
	}
	if _, err := s.Load(ctx); err != nil {
		t.Errorf("Load after recreate: %v", err)
	}
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rec.Equal(Defaults()) {
		t.Error("expected defaults for empty database")
	}
}

func TestLoadUnavailable(t *testing.T) {
	dir := t.TempDir()
	// A directory where a file is expected cannot be opened as a store.
	path := filepath.Join(dir, "settings.db")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	s := Open(path)
	defer s.Close()

	rec, err := s.Load(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !rec.Equal(Defaults()) {
		t.Error("expected defaults")
	}
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StorageError, got %T: %v", err, err)
	}
}

func TestLoadImportsLegacyJSON(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "settings-test.json")
	doc := `{
    "last_session": "/home/u/todo.txt",
    "word_wrap": true,
    "reopen_last": false,
    "recent_files": ["/home/u/todo.txt", "/home/u/b.txt"],
    "max_recent_files": 4,
    "dark_mode": false
}`
	if err := os.WriteFile(legacy, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(filepath.Join(dir, "settings-test.db"), WithLegacyJSON(legacy))
	defer s.Close()

	rec, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if last, _ := rec.LastSession(); last != "/home/u/todo.txt" {
		t.Errorf("unexpected last_session %q", last)
	}
	if !rec.WordWrap() || rec.ReopenLast() {
		t.Error("booleans not imported")
	}
	if rec.MaxRecentFiles() != 4 {
		t.Errorf("expected max_recent_files 4, got %d", rec.MaxRecentFiles())
	}
	if rec.Theme() != ThemeLight {
		t.Errorf("expected dark_mode=false to become light theme, got %q", rec.Theme())
	}
	if rec.Has("dark_mode") || rec.Has(schemaKey) {
		t.Error("expected migration bookkeeping keys removed")
	}
	if !s.Exists() {
		t.Error("expected imported settings to be saved")
	}
}

func TestLoadLegacyNullIsAbsent(t *testing.T) {
	rec, err := DecodeLegacyJSON([]byte(`{"last_session": null, "word_wrap": false}`))
	if err != nil {
		t.Fatalf("DecodeLegacyJSON: %v", err)
	}
	if rec.Has(KeyLastSession) {
		t.Error("expected null last_session to be absent")
	}
}

func TestLoadCorruptLegacyJSONUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "old.json")
	if err := os.WriteFile(legacy, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(filepath.Join(dir, "new.db"), WithLegacyJSON(legacy))
	defer s.Close()

	rec, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rec.Equal(Defaults()) {
		t.Error("expected defaults")
	}
}

func TestClosedStore(t *testing.T) {
	s := newTestStore(t)
	_ = s.Close()

	if err := s.Save(context.Background(), Defaults()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestLegacyImportPersistsBoundedRecentFiles(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "settings-test.json")
	doc := `{"max_recent_files": 2, "recent_files": ["/a", "/b", "/c", "/d"]}`
	if err := os.WriteFile(legacy, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(filepath.Join(dir, "settings-test.db"), WithLegacyJSON(legacy))
	defer s.Close()
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	db, err := sql.Open(driverName, s.Path())
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var value string
	if err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, KeyRecentFiles).Scan(&value); err != nil {
		t.Fatalf("query: %v", err)
	}
	if got := DecodeList(value); !reflect.DeepEqual(got, []string{"/a", "/b"}) {
		t.Errorf("expected persisted [/a /b], got %v", got)
	}
}

func TestLoadTruncatesOverlongRecentFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := NewRecord()
	rec.SetInt(KeyMaxRecentFiles, 3)
	// Bypass AddRecent so the stored list exceeds the bound.
	rec.values[KeyRecentFiles] = EncodeList([]string{"a", "b", "c", "d", "e"})
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := rec.List(KeyRecentFiles); len(got) != 3 {
		t.Errorf("expected Save to bound the record, got %v", got)
	}

	db, err := sql.Open(driverName, s.Path())
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`UPDATE settings SET value = ? WHERE key = ?`,
		EncodeList([]string{"a", "b", "c", "d", "e"}), KeyRecentFiles); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := Open(s.Path()).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if list := got.List(KeyRecentFiles); !reflect.DeepEqual(list, []string{"a", "b", "c"}) {
		t.Errorf("expected loaded [a b c], got %v", list)
	}
}
