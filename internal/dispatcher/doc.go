// Package dispatcher routes notepad actions to handlers and coordinates
// execution.
//
// The dispatcher is the hub between the window (menus, shortcuts, the find
// bar, dropped files) and the notepad subsystems. Every user operation is an
// input.Action named "namespace.action" ("file.open", "search.replaceAll",
// "options.toggleTheme").
//
// # Routing
//
// Two tiers are consulted in order:
//
//  1. Handler Registry: exact action names, several handlers per name
//     sorted by priority.
//  2. Namespace Router: the namespace prefix selects a NamespaceHandler.
//
// # Handler Execution
//
// When an action is dispatched:
//
//  1. An ExecutionContext is built with the workspace, the settings record
//     and store, the find/replace session and the logger
//  2. Pre-dispatch hooks run (they can modify or cancel the action)
//  3. The handler runs, with panic recovery when configured
//  4. Post-dispatch hooks run
//  5. Metrics are recorded when enabled
//
// The Result tells the window what to refresh: a selection to apply, content
// to reload, tabs or option checkmarks to redraw, and a status message.
//
// # Usage
//
//	d := dispatcher.New(dispatcher.DefaultConfig().WithLogger(logger))
//	d.SetWorkspace(ws)
//	d.SetSettings(rec, store)
//	d.RegisterNamespace(file.NewHandler())
//	d.RegisterNamespace(search.NewHandler())
//
//	result := d.Dispatch(input.Action{Name: "file.open", Args: input.ActionArgs{Path: p}})
//	if result.IsError() {
//	    // show result.Error
//	}
//
// The dispatcher expects to be driven from the UI goroutine. Its own tables
// are safe for concurrent use but the workspace it hands out is not.
package dispatcher
