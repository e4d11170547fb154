// Package app provides the main application structure and coordination
// for cnbpad. It wires configuration, logging, the settings store, the
// workspace and the dispatcher, and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/cnbpad/internal/config"
	"github.com/dshills/cnbpad/internal/dispatcher"
	"github.com/dshills/cnbpad/internal/dispatcher/execctx"
	"github.com/dshills/cnbpad/internal/dispatcher/handler"
	"github.com/dshills/cnbpad/internal/dispatcher/handlers/edit"
	"github.com/dshills/cnbpad/internal/dispatcher/handlers/file"
	"github.com/dshills/cnbpad/internal/dispatcher/handlers/options"
	"github.com/dshills/cnbpad/internal/dispatcher/handlers/search"
	"github.com/dshills/cnbpad/internal/input"
	"github.com/dshills/cnbpad/internal/settings"
	"github.com/dshills/cnbpad/internal/workspace"
)

// Application is the central coordinator for all cnbpad components.
//
// Everything except the config watcher callback runs on the UI goroutine.
type Application struct {
	mu sync.Mutex

	// Core infrastructure
	config    *config.Config
	logger    zerolog.Logger
	levels    *LevelFilter
	logCloser io.Closer
	watcher   *config.Watcher

	// Persisted user settings
	store    *settings.Store
	settings *settings.Record
	warning  string

	// Documents and actions
	workspace  *workspace.Workspace
	dispatcher *dispatcher.Dispatcher

	// Log level inputs, read by the watcher goroutine.
	configLevel atomic.Int32
	debug       atomic.Bool

	shutdown atomic.Bool
	opts     Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. When set, the file
	// is watched and the log level follows it.
	ConfigPath string

	// EnableDebug turns on debug logging and persists the choice.
	EnableDebug bool

	// DisableDebug turns off debug logging and persists the choice. It wins
	// over EnableDebug.
	DisableDebug bool

	// Files are files to open on startup instead of the last session.
	Files []string

	// Hostname names the per-machine settings files. Empty means os.Hostname.
	Hostname string

	// Version and Date identify the running build. They are recorded in the
	// settings on every launch; empty values leave the stored ones alone.
	Version string
	Date    string

	// LogOutput receives log output when no log file is configured.
	// Nil means os.Stderr.
	LogOutput io.Writer
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}

	if err := app.bootstrap(); err != nil {
		app.release()
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logger
	out := app.opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger, levels, closer, err := NewLogger(cfg.Logging, out)
	if err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	app.logger, app.levels, app.logCloser = logger, levels, closer
	app.configLevel.Store(int32(cfg.Logging.ZerologLevel()))

	// 3. Settings
	app.loadSettings()
	app.applyDebugFlags()
	app.stampRelease()
	app.debug.Store(app.settings.DebugEnabled())
	app.applyLevel()

	// 4. Workspace
	app.workspace = workspace.New(workspace.WithDefaultExtension(cfg.Editor.DefaultExtension))

	// 5. Dispatcher
	app.dispatcher = app.newDispatcher()

	// 6. Config watcher
	if app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(app.opts.ConfigPath, app.onConfigChange,
			config.WithLogger(app.logger))
		if err != nil {
			app.logger.Warn().Err(err).Str("path", app.opts.ConfigPath).Msg("config watcher disabled")
		} else {
			app.watcher = w
		}
	}

	app.logger.Info().
		Str("store", app.store.Path()).
		Str("level", app.levels.Level().String()).
		Msg("application initialized")
	return nil
}

// loadSettings opens the per-machine store and loads the record. Storage
// failures fall back to defaults and leave a one-time startup warning.
func (app *Application) loadSettings() {
	host := app.opts.Hostname
	if host == "" {
		host, _ = os.Hostname()
	}

	dataDir := app.config.Paths.DataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		app.logger.Warn().Err(err).Str("dir", dataDir).Msg("cannot create data directory")
	}

	legacy := app.config.Paths.LegacyJSON
	if legacy == "" {
		legacy = settings.LegacyFileName(host)
	}

	app.store = settings.Open(filepath.Join(dataDir, settings.FileName(host)),
		settings.WithLogger(app.logger),
		settings.WithLegacyJSON(legacy))

	rec, err := app.store.Load(context.Background())
	if err != nil {
		app.warning = startupWarning(err)
		app.logger.Warn().Err(err).Msg("settings unavailable, using defaults")
	}
	app.settings = rec
}

// startupWarning returns the message shown once when settings could not be
// loaded.
func startupWarning(err error) string {
	var se *settings.StorageError
	if errors.As(err, &se) && se.Kind == settings.KindCorrupt {
		if se.Backup != "" {
			return fmt.Sprintf("Settings were corrupt and have been reset. The old file was kept as %s.", se.Backup)
		}
		return "Settings were corrupt and have been reset."
	}
	return "Settings could not be read. Defaults are in use."
}

// applyDebugFlags persists the command-line debug choice.
func (app *Application) applyDebugFlags() {
	enable, disable := app.opts.EnableDebug, app.opts.DisableDebug
	if enable && disable {
		app.logger.Warn().Msg("both --enabledebug and --disabledebug given, debug disabled")
		enable = false
	}
	if !enable && !disable {
		return
	}

	app.settings.SetDebugEnabled(enable)
	if err := app.store.Save(context.Background(), app.settings); err != nil {
		app.logger.Warn().Err(err).Msg("debug setting not saved")
	}
}

// stampRelease records the running build and the launch time in the
// settings and persists them.
func (app *Application) stampRelease() {
	if app.opts.Version != "" {
		app.settings.SetString(settings.KeyVersion, app.opts.Version)
	}
	if app.opts.Date != "" {
		app.settings.SetString(settings.KeyDate, app.opts.Date)
	}
	app.settings.SetString(settings.KeyLastChecked, time.Now().UTC().Format(time.RFC3339))

	if err := app.store.Save(context.Background(), app.settings); err != nil {
		app.logger.Warn().Err(err).Msg("release info not saved")
	}
}

// newDispatcher wires every handler namespace.
func (app *Application) newDispatcher() *dispatcher.Dispatcher {
	cfg := dispatcher.DefaultConfig().
		WithLogger(app.logger).
		WithMetrics().
		WithActionLogging()

	d := dispatcher.New(cfg)
	d.SetWorkspace(app.workspace)
	d.SetSettings(app.settings, app.store)

	d.RegisterNamespace(file.NewHandler())
	d.RegisterNamespace(search.NewHandler())
	d.RegisterNamespace(options.NewHandler())
	d.RegisterNamespace(edit.NewHandler())

	d.RegisterPostHook(dispatcher.PostDispatchFunc(app.afterDispatch))
	return d
}

// afterDispatch follows debug changes made through the Options menu.
func (app *Application) afterDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if action.Name != options.ActionSetDebug || result.IsError() {
		return
	}
	app.debug.Store(ctx.Settings.DebugEnabled())
	app.applyLevel()
}

// onConfigChange runs on the watcher goroutine.
func (app *Application) onConfigChange(cfg *config.Config) {
	app.configLevel.Store(int32(cfg.Logging.ZerologLevel()))
	app.applyLevel()
	app.logger.Info().Str("level", app.levels.Level().String()).Msg("config reloaded")
}

// applyLevel sets the log threshold: debug when enabled in settings,
// otherwise the configured level.
func (app *Application) applyLevel() {
	level := zerolog.Level(app.configLevel.Load())
	if app.debug.Load() {
		level = zerolog.DebugLevel
	}
	app.levels.SetLevel(level)
}

// Restore opens the files given on the command line or, failing that and
// when reopen_last is on, the files open at the end of the last session.
// Without a recorded session it falls back to the last_session file. Files
// that cannot be opened are logged and returned together.
func (app *Application) Restore() error {
	errs := NewErrorList()

	last, hasLast := app.settings.LastSession()
	paths := app.opts.Files
	restoring := len(paths) == 0 && app.settings.ReopenLast()
	if restoring {
		paths = app.sessionFiles()
	}

	for _, p := range paths {
		action := input.Action{Name: file.ActionOpen}.
			WithPath(p).
			WithSource(input.SourceStartup)
		if result := app.Dispatch(action); result.IsError() {
			app.logger.Warn().Err(result.Error).Str("path", p).Msg("cannot open file")
			errs.Add(result.Error)
		}
	}

	// Opening moves last_session to each restored path in turn; the tab
	// that was last used keeps it and the focus.
	if restoring && hasLast {
		if i := app.workspace.IndexOfPath(last); i >= 0 {
			_ = app.workspace.SetCurrent(i)
			app.settings.SetLastSession(last)
		}
	}

	return errs.AsError()
}

// sessionFiles returns the recorded open files that still exist, or the
// last_session file when none do.
func (app *Application) sessionFiles() []string {
	exists := func(p string) bool {
		info, err := os.Stat(p)
		return err == nil && !info.IsDir()
	}

	var paths []string
	for _, p := range app.settings.OpenFiles() {
		if exists(p) {
			paths = append(paths, p)
		} else {
			app.logger.Debug().Str("path", p).Msg("session file gone")
		}
	}
	if len(paths) > 0 {
		return paths
	}

	if last, ok := app.settings.LastSession(); ok {
		if exists(last) {
			return []string{last}
		}
		app.logger.Debug().Str("path", last).Msg("last session file gone")
	}
	return nil
}

// Dispatch executes an action.
func (app *Application) Dispatch(action input.Action) handler.Result {
	return app.dispatcher.Dispatch(action)
}

// StartCounter calls tick every count interval until ctx is done. tick runs
// on the ticker goroutine; UI callers marshal it to the UI thread.
func (app *Application) StartCounter(ctx context.Context, tick func()) {
	interval := app.config.Editor.CountInterval.Std()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick()
			}
		}
	}()
}

// Shutdown records the open files, closes the store and the watcher and
// releases the log file. It is safe to call more than once.
func (app *Application) Shutdown() error {
	if !app.shutdown.CompareAndSwap(false, true) {
		return nil
	}

	errs := NewErrorList()

	app.settings.SetOpenFiles(app.workspace.OpenPaths())
	errs.Add(app.store.Save(context.Background(), app.settings))

	if m := app.dispatcher.Metrics(); m != nil {
		m.LogTo(app.logger)
	}
	app.logger.Info().Msg("application shut down")

	errs.Add(app.release())
	return errs.AsError()
}

// release closes the watcher, the store and the log file if they exist.
func (app *Application) release() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	errs := NewErrorList()
	if app.watcher != nil {
		errs.Add(app.watcher.Close())
		app.watcher = nil
	}
	if app.store != nil {
		errs.Add(app.store.Close())
	}
	if app.logCloser != nil {
		errs.Add(app.logCloser.Close())
		app.logCloser = nil
	}
	return errs.AsError()
}

// Config returns the application configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() zerolog.Logger {
	return app.logger
}

// LogLevel returns the current log threshold.
func (app *Application) LogLevel() zerolog.Level {
	return app.levels.Level()
}

// Settings returns the settings record.
func (app *Application) Settings() *settings.Record {
	return app.settings
}

// Store returns the settings store.
func (app *Application) Store() *settings.Store {
	return app.store
}

// Workspace returns the open documents.
func (app *Application) Workspace() *workspace.Workspace {
	return app.workspace
}

// Dispatcher returns the action dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// StartupWarning returns the settings warning to show once, or "".
func (app *Application) StartupWarning() string {
	return app.warning
}
