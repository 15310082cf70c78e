// Package file provides the file-based configuration store.
//
// Configuration lives in reqsnake.toml at the project root. Tables are
// flattened into dotted keys on load and rebuilt on save, so
//
//	[lockfile]
//	path = "requirements.lock"
//
// is read and written as the key "lockfile.path".
package file
