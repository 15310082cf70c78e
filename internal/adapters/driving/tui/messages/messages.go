// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewList is the requirement list.
	ViewList ViewType = iota
	// ViewDetail shows one requirement with its parents and children.
	ViewDetail
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// RequirementsLoaded carries the validated requirements.
type RequirementsLoaded struct {
	Requirements []domain.ParsedRequirement
	Err          error
}

// RequirementSelected is sent when enter is pressed on a list entry.
type RequirementSelected struct {
	ID string
}

// DetailLoaded carries the neighbourhood of the selected requirement.
type DetailLoaded struct {
	Detail *domain.RequirementDetail
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
