// Package manifest persists which album assets have already been downloaded.
//
// The SQLite-backed store lets repeated fetch runs skip assets whose files are
// still intact on disk, so interrupted downloads resume instead of starting
// over.
package manifest
