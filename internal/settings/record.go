package settings

import (
	"maps"
	"slices"
)

// Record is the user's settings as a flat key/value mapping.
//
// Values are kept in their serialized form. A key that was never set or
// loaded is absent, and the typed getters return the caller's default for it.
type Record struct {
	values map[string]string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Defaults returns the record used on first launch.
func Defaults() *Record {
	r := NewRecord()
	r.SetBool(KeyWordWrap, DefaultWordWrap)
	r.SetBool(KeyReopenLast, DefaultReopenLast)
	r.SetInt(KeyMaxRecentFiles, DefaultMaxRecent)
	r.SetList(KeyRecentFiles, nil)
	r.SetBool(KeyDebugEnabled, DefaultDebug)
	r.SetString(KeyTheme, DefaultTheme)
	return r
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the present keys in sorted order.
func (r *Record) Keys() []string {
	return slices.Sorted(maps.Keys(r.values))
}

// Len returns the number of present keys.
func (r *Record) Len() int {
	return len(r.values)
}

// Raw returns the serialized value of key.
func (r *Record) Raw(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// SetRaw stores a serialized value. max_recent_files is clamped.
func (r *Record) SetRaw(key, value string) {
	if key == KeyMaxRecentFiles {
		if n, ok := DecodeInt(value); ok {
			value = EncodeInt(ClampMaxRecent(n))
		}
	}
	r.values[key] = value
}

// Delete removes key.
func (r *Record) Delete(key string) {
	delete(r.values, key)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	return &Record{values: maps.Clone(r.values)}
}

// Equal reports whether both records hold the same keys and values.
func (r *Record) Equal(other *Record) bool {
	return maps.Equal(r.values, other.values)
}

// String returns the string value of key, or def if absent.
func (r *Record) String(key, def string) string {
	if v, ok := r.values[key]; ok {
		return v
	}
	return def
}

// SetString stores a string value.
func (r *Record) SetString(key, value string) {
	r.SetRaw(key, value)
}

// Bool returns the boolean value of key, or def if absent or unparsable.
func (r *Record) Bool(key string, def bool) bool {
	v, ok := r.values[key]
	if !ok {
		return def
	}
	b, ok := DecodeBool(v)
	if !ok {
		return def
	}
	return b
}

// SetBool stores a boolean value.
func (r *Record) SetBool(key string, value bool) {
	r.SetRaw(key, EncodeBool(value))
}

// Int returns the integer value of key, or def if absent or unparsable.
func (r *Record) Int(key string, def int) int {
	v, ok := r.values[key]
	if !ok {
		return def
	}
	n, ok := DecodeInt(v)
	if !ok {
		return def
	}
	return n
}

// SetInt stores an integer value.
func (r *Record) SetInt(key string, value int) {
	r.SetRaw(key, EncodeInt(value))
}

// List returns the list value of key. An absent key is an empty list.
func (r *Record) List(key string) []string {
	v, ok := r.values[key]
	if !ok {
		return []string{}
	}
	return DecodeList(v)
}

// SetList stores a list value.
func (r *Record) SetList(key string, items []string) {
	r.SetRaw(key, EncodeList(items))
}

// LastSession returns the last opened file, if any.
func (r *Record) LastSession() (string, bool) {
	v, ok := r.values[KeyLastSession]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SetLastSession records the last opened file.
func (r *Record) SetLastSession(path string) {
	r.SetString(KeyLastSession, path)
}

// WordWrap returns the word-wrap flag.
func (r *Record) WordWrap() bool {
	return r.Bool(KeyWordWrap, DefaultWordWrap)
}

// SetWordWrap sets the word-wrap flag.
func (r *Record) SetWordWrap(on bool) {
	r.SetBool(KeyWordWrap, on)
}

// ReopenLast returns whether the last file is reopened on startup.
func (r *Record) ReopenLast() bool {
	return r.Bool(KeyReopenLast, DefaultReopenLast)
}

// SetReopenLast sets the reopen-last flag.
func (r *Record) SetReopenLast(on bool) {
	r.SetBool(KeyReopenLast, on)
}

// DebugEnabled returns the persisted debug flag.
func (r *Record) DebugEnabled() bool {
	return r.Bool(KeyDebugEnabled, DefaultDebug)
}

// SetDebugEnabled sets the persisted debug flag.
func (r *Record) SetDebugEnabled(on bool) {
	r.SetBool(KeyDebugEnabled, on)
}

// Theme returns the UI theme name.
func (r *Record) Theme() string {
	switch t := r.String(KeyTheme, DefaultTheme); t {
	case ThemeDark, ThemeLight:
		return t
	default:
		return DefaultTheme
	}
}

// SetTheme sets the UI theme name.
func (r *Record) SetTheme(theme string) {
	r.SetString(KeyTheme, theme)
}

// OpenFiles returns the files open at the end of the last session.
func (r *Record) OpenFiles() []string {
	return r.List(KeyOpenFiles)
}

// SetOpenFiles records the files currently open.
func (r *Record) SetOpenFiles(paths []string) {
	r.SetList(KeyOpenFiles, paths)
}

// MaxRecentFiles returns the recent-files bound, clamped to [0,10].
func (r *Record) MaxRecentFiles() int {
	return ClampMaxRecent(r.Int(KeyMaxRecentFiles, DefaultMaxRecent))
}

// RecentFiles returns the recent files, most recent first.
func (r *Record) RecentFiles() []string {
	files := r.List(KeyRecentFiles)
	if limit := r.MaxRecentFiles(); len(files) > limit {
		files = files[:limit]
	}
	return files
}

// AddRecent moves path to the front of the recent files, removing an
// existing equal entry, and truncates the list to MaxRecentFiles.
func (r *Record) AddRecent(path string) {
	files := r.List(KeyRecentFiles)
	files = slices.DeleteFunc(files, func(p string) bool { return p == path })
	files = slices.Insert(files, 0, path)
	if limit := r.MaxRecentFiles(); len(files) > limit {
		files = files[:limit]
	}
	r.SetList(KeyRecentFiles, files)
}

// normalize enforces the cross-key bound on data that did not pass through
// the setters: recent_files is truncated to MaxRecentFiles.
func (r *Record) normalize() {
	if !r.Has(KeyRecentFiles) {
		return
	}
	if files := r.List(KeyRecentFiles); len(files) > r.MaxRecentFiles() {
		r.SetList(KeyRecentFiles, files[:r.MaxRecentFiles()])
	}
}

// SetMaxRecent clamps n to [0,10], stores it and truncates the recent files.
func (r *Record) SetMaxRecent(n int) {
	n = ClampMaxRecent(n)
	r.SetInt(KeyMaxRecentFiles, n)

	files := r.List(KeyRecentFiles)
	if len(files) > n {
		files = files[:n]
	}
	r.SetList(KeyRecentFiles, files)
}
