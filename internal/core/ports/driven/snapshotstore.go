package driven

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// SnapshotStore persists the lockfile.
type SnapshotStore interface {
	// Load reads the lockfile. Returns domain.ErrNotFound if it does not exist.
	Load(ctx context.Context) (*domain.Lockfile, error)

	// Save replaces the lockfile with reqs. The write is atomic: readers see
	// either the old or the new file.
	Save(ctx context.Context, reqs []domain.Requirement) error

	// Exists reports whether a lockfile is present.
	Exists(ctx context.Context) (bool, error)

	// Path returns the lockfile location for display.
	Path() string
}
