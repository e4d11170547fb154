package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	// SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"

	createTableSQL = `CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`
	tableExistsSQL = `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'settings'`
	selectAllSQL   = `SELECT key, value FROM settings`
	upsertSQL      = `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`
)

// Store persists a Record in a single-table SQLite database.
//
// A Store is used from one goroutine. The database is opened on first use.
type Store struct {
	path       string
	legacyPath string
	logger     zerolog.Logger
	now        func() time.Time

	db     *sql.DB
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l.With().Str("component", "settings").Logger()
	}
}

// WithLegacyJSON names a JSON settings file to import when the database does
// not exist yet.
func WithLegacyJSON(path string) Option {
	return func(s *Store) {
		s.legacyPath = path
	}
}

// WithClock overrides the time source used to name corrupt-store backups.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open returns a Store for the database at path. No I/O happens until Load
// or Save.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the database file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the persisted record.
//
// If no database exists, Load returns Defaults (or the imported legacy JSON
// settings) and a nil error. If the database cannot be read or parsed, Load
// returns Defaults together with a *StorageError; a corrupt database is
// renamed out of the way first so the next Save starts fresh.
func (s *Store) Load(ctx context.Context) (*Record, error) {
	if s.closed {
		return Defaults(), ErrClosed
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.loadInitial(ctx)
		}
		return Defaults(), s.unavailable(err)
	}
	if info.IsDir() {
		return Defaults(), s.unavailable(fmt.Errorf("%s is a directory", s.path))
	}

	f, err := os.Open(s.path)
	if err != nil {
		return Defaults(), s.unavailable(err)
	}
	_ = f.Close()

	db, err := s.open()
	if err != nil {
		return Defaults(), s.unavailable(err)
	}

	var tables int
	if err := db.QueryRowContext(ctx, tableExistsSQL).Scan(&tables); err != nil {
		return Defaults(), s.corrupt(err)
	}
	if tables == 0 {
		s.logger.Debug().Str("path", s.path).Msg("settings table missing, using defaults")
		return Defaults(), nil
	}

	rec, err := s.readAll(ctx, db)
	if err != nil {
		return Defaults(), s.corrupt(err)
	}

	s.logger.Debug().Str("path", s.path).Int("keys", rec.Len()).Msg("settings loaded")
	return rec, nil
}

// loadInitial handles the first launch, importing legacy settings if present.
func (s *Store) loadInitial(ctx context.Context) (*Record, error) {
	if s.legacyPath == "" {
		return Defaults(), nil
	}

	raw, err := os.ReadFile(s.legacyPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.legacyPath).Msg("legacy settings unreadable, using defaults")
		}
		return Defaults(), nil
	}

	rec, err := DecodeLegacyJSON(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.legacyPath).Msg("legacy settings corrupt, using defaults")
		return Defaults(), nil
	}

	if err := s.Save(ctx, rec); err != nil {
		return rec, err
	}
	s.logger.Info().Str("from", s.legacyPath).Str("to", s.path).Msg("imported legacy settings")
	return rec, nil
}

func (s *Store) readAll(ctx context.Context, db *sql.DB) (*Record, error) {
	rows, err := db.QueryContext(ctx, selectAllSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rec := NewRecord()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		rec.SetRaw(key, value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rec.normalize()
	return rec, nil
}

// Save upserts every key of rec. Keys not in rec are left untouched.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if s.closed {
		return ErrClosed
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("creating settings table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	defer stmt.Close()

	rec.normalize()
	for _, key := range rec.Keys() {
		value, _ := rec.Raw(key)
		if key == KeyMaxRecentFiles {
			value = EncodeInt(rec.MaxRecentFiles())
		}
		if _, err := stmt.ExecContext(ctx, key, value); err != nil {
			return fmt.Errorf("saving setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	s.logger.Debug().Str("path", s.path).Int("keys", rec.Len()).Msg("settings saved")
	return nil
}

// Update applies fn to rec and saves it.
func (s *Store) Update(ctx context.Context, rec *Record, fn func(*Record)) error {
	fn(rec)
	return s.Save(ctx, rec)
}

// AddRecent adds path to the recent files of rec and saves it.
func (s *Store) AddRecent(ctx context.Context, rec *Record, path string) error {
	return s.Update(ctx, rec, func(r *Record) { r.AddRecent(path) })
}

// SetMaxRecent sets the recent-files bound of rec and saves it.
func (s *Store) SetMaxRecent(ctx context.Context, rec *Record, n int) error {
	return s.Update(ctx, rec, func(r *Record) { r.SetMaxRecent(n) })
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open(driverName, s.path)
	if err != nil {
		return nil, err
	}
	// One writer, one connection.
	db.SetMaxOpenConns(1)
	s.db = db
	return db, nil
}

func (s *Store) unavailable(err error) error {
	serr := &StorageError{Kind: KindUnavailable, Path: s.path, Err: err}
	s.logger.Warn().Err(err).Str("path", s.path).Msg("settings store unavailable, using defaults")
	return serr
}

// corrupt moves the unreadable database aside and reports it.
func (s *Store) corrupt(err error) error {
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}

	serr := &StorageError{Kind: KindCorrupt, Path: s.path, Err: err}
	backup := s.path + ".corrupt-" + strconv.FormatInt(s.now().Unix(), 10)
	if rerr := os.Rename(s.path, backup); rerr != nil {
		s.logger.Error().Err(rerr).Str("path", s.path).Msg("could not move corrupt settings store")
	} else {
		serr.Backup = backup
	}

	s.logger.Warn().Err(err).Str("path", s.path).Str("backup", serr.Backup).Msg("settings store corrupt, using defaults")
	return serr
}
