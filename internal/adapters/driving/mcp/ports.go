package mcp

import (
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Requirements parses, validates and checks requirements.
	Requirements driving.RequirementService

	// Status reports lockfile completion. Optional.
	Status driving.StatusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Requirements == nil {
		return ErrMissingRequirementService
	}
	return nil
}
