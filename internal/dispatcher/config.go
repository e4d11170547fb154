package dispatcher

import "github.com/rs/zerolog"

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps handler execution in panic recovery.
	RecoverFromPanic bool

	// LogActions logs every dispatch at debug level.
	LogActions bool

	// Logger receives dispatch diagnostics.
	Logger zerolog.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:    false,
		RecoverFromPanic: true,
		LogActions:       false,
		Logger:           zerolog.Nop(),
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithLogger returns a copy of the config with the logger set.
func (c Config) WithLogger(l zerolog.Logger) Config {
	c.Logger = l.With().Str("component", "dispatcher").Logger()
	return c
}

// WithActionLogging returns a copy of the config logging every dispatch.
func (c Config) WithActionLogging() Config {
	c.LogActions = true
	return c
}
