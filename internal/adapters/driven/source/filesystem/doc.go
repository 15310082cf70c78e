// Package filesystem discovers requirement documents in a local project
// tree. Markdown files are selected by include patterns, filtered through
// the project's ignore file, and identified by their slash-separated path
// relative to the project root.
//
// Hidden directories (".git", ".venv", ...) are never descended into.
// Watch uses fsnotify, registering every visible directory and any that
// are created later.
package filesystem
