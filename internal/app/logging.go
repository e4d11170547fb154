package app

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/cnbpad/internal/config"
)

// LevelFilter is a zerolog.LevelWriter whose threshold can change while
// loggers built on it are in use.
type LevelFilter struct {
	w     io.Writer
	level atomic.Int32
}

// NewLevelFilter wraps w, dropping events below level.
func NewLevelFilter(w io.Writer, level zerolog.Level) *LevelFilter {
	f := &LevelFilter{w: w}
	f.SetLevel(level)
	return f
}

// SetLevel changes the threshold.
func (f *LevelFilter) SetLevel(level zerolog.Level) {
	f.level.Store(int32(level))
}

// Level returns the threshold.
func (f *LevelFilter) Level() zerolog.Level {
	return zerolog.Level(f.level.Load())
}

// Write implements io.Writer.
func (f *LevelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

// WriteLevel implements zerolog.LevelWriter.
func (f *LevelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.Level() {
		return len(p), nil
	}
	return f.w.Write(p)
}

// NewLogger builds the application logger. Output goes to cfg.File when set,
// otherwise to fallback. The returned closer releases the log file and is
// never nil.
func NewLogger(cfg config.LoggingConfig, fallback io.Writer) (zerolog.Logger, *LevelFilter, io.Closer, error) {
	var (
		out    = fallback
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, nil, err
		}
		out, closer = f, f
	}

	if cfg.Format == config.FormatConsole {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    cfg.File != "",
		}
	}

	filter := NewLevelFilter(out, cfg.ZerologLevel())
	logger := zerolog.New(filter).
		Level(zerolog.TraceLevel).
		With().
		Timestamp().
		Str("app", config.AppName).
		Logger()

	return logger, filter, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
