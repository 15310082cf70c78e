package driven

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// HistoryStore persists the outcome of init, lock and check runs.
type HistoryStore interface {
	// Save stores a history entry.
	Save(ctx context.Context, entry domain.HistoryEntry) error

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*domain.HistoryEntry, error)

	// List returns the most recent entries first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
