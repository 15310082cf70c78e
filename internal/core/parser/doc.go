// Package parser extracts requirements from markdown text.
//
// A requirement is written as a block-quote:
//
//	> REQ-CORE-1
//	> The parser must reject malformed IDs.
//	> critical
//	> child-of: REQ-CORE-0
//
// The first line is the ID, the second the description, and every
// further line an attribute: "critical", "completed", or "child-of"
// followed by a parent ID. Blocks whose first line contains whitespace,
// or that have fewer than two non-blank lines, are not requirements and
// are skipped silently. HTML comments are removed before extraction.
//
// The package performs no I/O: text comes in as strings and requirements
// go out as domain values.
package parser
