// Package mcp provides an MCP (Model Context Protocol) server adapter for reqsnake.
// It lets AI assistants validate, browse and check the requirements of a project.
package mcp

import "errors"

// ErrMissingRequirementService is returned when the requirement service is not provided.
var ErrMissingRequirementService = errors.New("mcp: requirement service is required")
