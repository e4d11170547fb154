// Package input defines the actions the notepad window sends to the
// dispatcher.
//
// Every user gesture, whether a menu item, a shortcut, the find bar or a
// file dropped on the window, becomes an Action with a namespaced name such
// as "file.open" or "search.findNext" and a set of typed arguments.
//
//	action := input.Action{
//	    Name: "search.replace",
//	    Args: input.ActionArgs{Query: "cat", Replacement: "dog"},
//	}
package input
