// Package tui provides an interactive requirement browser.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Requirements lists requirements and resolves their neighbourhood.
	Requirements driving.RequirementService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Requirements == nil {
		return ErrMissingRequirementService
	}
	return nil
}
