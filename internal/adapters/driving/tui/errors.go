package tui

import "errors"

// ErrMissingRequirementService is returned when the requirement service is not provided.
var ErrMissingRequirementService = errors.New("tui: requirement service is required")
