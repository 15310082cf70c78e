package driving

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// StatusService reports completion progress recorded in the lockfile.
type StatusService interface {
	// Status summarises the lockfile requirements, attributing each to
	// the document it is currently declared in.
	Status(ctx context.Context) (*domain.Status, error)

	// Report renders Status as a markdown document.
	Report(ctx context.Context) ([]byte, error)
}
