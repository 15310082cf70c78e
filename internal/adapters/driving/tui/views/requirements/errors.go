package requirements

import "errors"

// ErrNoRequirementService indicates that no requirement service was provided.
var ErrNoRequirementService = errors.New("requirement service is required")
