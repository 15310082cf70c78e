package driving

import (
	"context"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// HistoryService exposes the record of init, lock and check runs.
type HistoryService interface {
	// Record stores an entry, assigning an ID and time when missing.
	Record(ctx context.Context, entry domain.HistoryEntry) error

	// List returns entries newest first. A limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Get returns a single entry.
	Get(ctx context.Context, id string) (*domain.HistoryEntry, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
