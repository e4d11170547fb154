package settings

import (
	"errors"
	"fmt"
)

// Settings errors.
var (
	// ErrUnavailable indicates the store could not be read.
	ErrUnavailable = errors.New("settings: storage unavailable")

	// ErrCorrupt indicates the store exists but could not be parsed.
	ErrCorrupt = errors.New("settings: storage corrupt")

	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("settings: store is closed")
)

// StorageKind categorizes a StorageError.
type StorageKind uint8

const (
	// KindUnavailable means the store is missing or unreadable.
	KindUnavailable StorageKind = iota
	// KindCorrupt means the store could not be parsed.
	KindCorrupt
)

// String returns a human-readable name for the kind.
func (k StorageKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// StorageError reports a recoverable failure to load the settings store.
type StorageError struct {
	// Kind categorizes the failure.
	Kind StorageKind
	// Path is the store path.
	Path string
	// Backup is where a corrupt store was moved to, if anywhere.
	Backup string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Backup != "" {
		return fmt.Sprintf("settings store %s is %s (moved to %s): %v", e.Path, e.Kind, e.Backup, e.Err)
	}
	return fmt.Sprintf("settings store %s is %s: %v", e.Path, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is matches ErrUnavailable and ErrCorrupt by kind.
func (e *StorageError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrCorrupt:
		return e.Kind == KindCorrupt
	}
	return false
}
