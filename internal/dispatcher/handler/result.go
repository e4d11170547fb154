package handler

import (
	"fmt"
	"maps"
)

// ResultStatus indicates the outcome of an action.
type ResultStatus uint8

const (
	// StatusOK indicates successful execution.
	StatusOK ResultStatus = iota
	// StatusNoOp indicates the action had no effect.
	StatusNoOp
	// StatusError indicates an error occurred.
	StatusError
	// StatusCancelled indicates the operation was cancelled.
	StatusCancelled
)

// String returns a string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Selection is a byte range the view should select after the action.
type Selection struct {
	Start int
	End   int
}

// ViewUpdate describes what the window must refresh after an action.
type ViewUpdate struct {
	// Select is the range to select in the current editor, if any.
	Select *Selection
	// ReloadContent indicates the current document's text was replaced.
	ReloadContent bool
	// Tabs indicates documents were opened, closed or renamed.
	Tabs bool
	// Options indicates a settings-backed option changed.
	Options bool
}

// Result represents the outcome of handling an action.
type Result struct {
	// Status indicates the result status.
	Status ResultStatus

	// Error contains any error that occurred.
	Error error

	// Message is transient status-bar text.
	Message string

	// ViewUpdate indicates required view updates.
	ViewUpdate ViewUpdate

	// Data holds handler-specific return data.
	Data map[string]any
}

// IsOK returns true if the result indicates success.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// StatusText returns the text to show in the status bar: the message if
// set, otherwise the error.
func (r Result) StatusText() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Error != nil {
		return r.Error.Error()
	}
	return ""
}

// Success creates a successful result.
func Success() Result {
	return Result{Status: StatusOK}
}

// SuccessWithMessage creates a successful result with a message.
func SuccessWithMessage(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

// SuccessWithData creates a successful result with data.
func SuccessWithData(key string, value any) Result {
	return Result{
		Status: StatusOK,
		Data:   map[string]any{key: value},
	}
}

// NoOp creates a no-operation result.
func NoOp() Result {
	return Result{Status: StatusNoOp}
}

// NoOpWithMessage creates a no-operation result with a message.
func NoOpWithMessage(msg string) Result {
	return Result{Status: StatusNoOp, Message: msg}
}

// Error creates an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Error: err}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{
		Status: StatusError,
		Error:  fmt.Errorf(format, args...),
	}
}

// Cancelled creates a cancelled result.
func Cancelled() Result {
	return Result{Status: StatusCancelled}
}

// CancelledWithMessage creates a cancelled result with a message.
func CancelledWithMessage(msg string) Result {
	return Result{Status: StatusCancelled, Message: msg}
}

// WithMessage returns a copy of the result with the specified message.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

// WithSelection returns a copy of the result selecting [start, end).
func (r Result) WithSelection(start, end int) Result {
	r.ViewUpdate.Select = &Selection{Start: start, End: end}
	return r
}

// WithContentReload returns a copy of the result requesting the editor
// text be reloaded from the document.
func (r Result) WithContentReload() Result {
	r.ViewUpdate.ReloadContent = true
	return r
}

// WithTabsRefresh returns a copy of the result requesting a tab refresh.
func (r Result) WithTabsRefresh() Result {
	r.ViewUpdate.Tabs = true
	return r
}

// WithOptionsRefresh returns a copy of the result requesting the option
// menus be refreshed.
func (r Result) WithOptionsRefresh() Result {
	r.ViewUpdate.Options = true
	return r
}

// WithData returns a copy of the result with a data value added.
func (r Result) WithData(key string, value any) Result {
	// Copy so results sharing a map stay independent.
	data := maps.Clone(r.Data)
	if data == nil {
		data = make(map[string]any)
	}
	data[key] = value
	r.Data = data
	return r
}

// GetData retrieves a data value.
func (r Result) GetData(key string) (any, bool) {
	if r.Data == nil {
		return nil, false
	}
	v, ok := r.Data[key]
	return v, ok
}
