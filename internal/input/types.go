package input

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceMenu indicates the action came from a menu item.
	SourceMenu ActionSource = iota
	// SourceShortcut indicates the action came from a keyboard shortcut.
	SourceShortcut
	// SourceFindBar indicates the action came from the find/replace bar.
	SourceFindBar
	// SourceDrop indicates the action came from files dropped on the window.
	SourceDrop
	// SourceStartup indicates the action came from session restore or the
	// command line.
	SourceStartup
	// SourceAPI indicates the action was issued programmatically.
	SourceAPI
)

// String returns a string representation of the source.
func (s ActionSource) String() string {
	switch s {
	case SourceMenu:
		return "menu"
	case SourceShortcut:
		return "shortcut"
	case SourceFindBar:
		return "findbar"
	case SourceDrop:
		return "drop"
	case SourceStartup:
		return "startup"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// ActionArgs holds arguments for an action.
type ActionArgs struct {
	// Path for file commands.
	Path string

	// Query for search commands.
	Query string

	// Replacement for replace commands.
	Replacement string

	// Int for numeric options (e.g., the recent-files bound).
	Int int

	// Force skips the unsaved-changes check on close.
	Force bool

	// ReadOnly opens a file read-only.
	ReadOnly bool

	// Extra holds additional key-value pairs for extensibility.
	Extra map[string]any
}

// Get retrieves a value from Extra.
func (a ActionArgs) Get(key string) (any, bool) {
	if a.Extra == nil {
		return nil, false
	}
	v, ok := a.Extra[key]
	return v, ok
}

// GetString retrieves a string value from Extra.
func (a ActionArgs) GetString(key string) string {
	if v, ok := a.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt retrieves an int value from Extra.
func (a ActionArgs) GetInt(key string) int {
	if v, ok := a.Get(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// GetBool retrieves a bool value from Extra.
func (a ActionArgs) GetBool(key string) bool {
	if v, ok := a.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g., "file.save", "search.find").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource
}

// WithPath returns a copy of the action with the specified path.
func (a Action) WithPath(path string) Action {
	a.Args.Path = path
	return a
}

// WithQuery returns a copy of the action with the specified query.
func (a Action) WithQuery(query string) Action {
	a.Args.Query = query
	return a
}

// WithForce returns a copy of the action with Force set.
func (a Action) WithForce() Action {
	a.Args.Force = true
	return a
}

// WithSource returns a copy of the action with the specified source.
func (a Action) WithSource(source ActionSource) Action {
	a.Source = source
	return a
}
