package settings

import "strings"

// Setting names.
const (
	KeyLastSession    = "last_session"
	KeyWordWrap       = "word_wrap"
	KeyReopenLast     = "reopen_last"
	KeyDebugEnabled   = "debug_enabled"
	KeyRecentFiles    = "recent_files"
	KeyMaxRecentFiles = "max_recent_files"
	KeyOpenFiles      = "open_files"
	KeyTheme          = "theme"
	KeyVersion        = "version"
	KeyDate           = "date"
	KeyLastChecked    = "last_checked"
)

// Bounds and defaults.
const (
	MinRecentFiles     = 0
	MaxRecentFilesCap  = 10
	DefaultMaxRecent   = 5
	DefaultWordWrap    = false
	DefaultReopenLast  = true
	DefaultDebug       = false
	DefaultTheme       = ThemeDark
	ThemeDark          = "dark"
	ThemeLight         = "light"
	defaultStoreSuffix = ".db"
	legacySuffix       = ".json"
)

// FileName returns the per-machine store file name for host.
// Only the first label of a dotted host name is used.
func FileName(host string) string {
	return "settings-" + shortHost(host) + defaultStoreSuffix
}

// LegacyFileName returns the per-machine JSON settings file name written by
// earlier releases.
func LegacyFileName(host string) string {
	return "settings-" + shortHost(host) + legacySuffix
}

func shortHost(host string) string {
	host, _, _ = strings.Cut(host, ".")
	if host == "" {
		host = "local"
	}
	return host
}

// ClampMaxRecent clamps n to [MinRecentFiles, MaxRecentFilesCap].
func ClampMaxRecent(n int) int {
	if n < MinRecentFiles {
		return MinRecentFiles
	}
	if n > MaxRecentFilesCap {
		return MaxRecentFilesCap
	}
	return n
}
