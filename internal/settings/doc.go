// Package settings persists the user's notepad settings.
//
// A Record is a flat mapping from setting name to a string-serialized value.
// Booleans are stored as "True"/"False", lists as comma-joined strings and
// integers in decimal. Because lists are comma-joined, a path that itself
// contains a comma does not survive a round trip.
//
// A Store keeps the record in a single-table SQLite database, one row per key,
// written with insert-or-replace semantics:
//
//	store := settings.Open(filepath.Join(dir, settings.FileName(host)),
//	    settings.WithLogger(log))
//	rec, err := store.Load(ctx)
//	if err != nil {
//	    // rec holds defaults; warn once and continue
//	}
//	_ = store.AddRecent(ctx, rec, "/tmp/notes.txt")
//
// A missing store is not an error: Load returns defaults and the database is
// created by the first Save. An unreadable or corrupt store also yields
// defaults, together with a *StorageError describing what happened. A corrupt
// file is moved aside so the next Save can recreate it without losing the
// original bytes.
package settings
