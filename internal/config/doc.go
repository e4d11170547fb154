// Package config provides the application configuration for cnbpad.
//
// Application configuration is distinct from user settings: it names where
// data lives, how logging is set up and a handful of editor timings. User
// preferences such as word wrap and recent files belong to package settings.
//
// # Sources
//
// Configuration is resolved from three sources, later sources overriding
// earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A config file, TOML (.toml) or YAML (.yaml, .yml)
//  3. CNBPAD_* environment variables
//
// A missing config file is not an error.
//
// # Basic Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//
// # Live Reload
//
// A Watcher reloads the file when it changes and hands the new Config to a
// callback:
//
//	w, err := config.NewWatcher(path, func(cfg *config.Config) {
//	    logger = logger.Level(cfg.Logging.ZerologLevel())
//	}, config.WithLogger(logger))
//	defer w.Close()
package config
