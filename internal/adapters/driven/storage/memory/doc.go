// Package memory provides in-memory implementations of the driven ports.
// They back the service tests and the MCP server when it runs against a
// fixed document set.
package memory
